package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/aria-ai/aria/pkg/protocol"
)

type timeTool struct{}

func (timeTool) Name() string        { return "get_time" }
func (timeTool) Description() string { return "Report the current local time" }

func (timeTool) Execute(_ context.Context, _ map[string]any) (protocol.ToolResult, error) {
	now := time.Now()
	return okResult(map[string]any{
		"time":    now.Format("3:04 PM"),
		"iso":     now.Format(time.RFC3339),
		"summary": "it's " + now.Format("3:04 PM"),
	}), nil
}

// Storage tools report against a fixed drive model. A production
// backend would shell out to the platform's disk APIs.

type driveInfo struct {
	Letter  string
	Label   string
	TotalGB int
	FreeGB  int
}

var drives = []driveInfo{
	{Letter: "C", Label: "System", TotalGB: 512, FreeGB: 187},
	{Letter: "D", Label: "Data", TotalGB: 1024, FreeGB: 640},
}

func findDrive(letter string) (driveInfo, bool) {
	for _, d := range drives {
		if d.Letter == letter {
			return d, true
		}
	}
	return driveInfo{}, false
}

type storageScanTool struct{}

func (storageScanTool) Name() string        { return "system_storage_scan" }
func (storageScanTool) Description() string { return "Rescan attached drives" }

func (storageScanTool) Execute(_ context.Context, _ map[string]any) (protocol.ToolResult, error) {
	letters := make([]any, 0, len(drives))
	for _, d := range drives {
		letters = append(letters, d.Letter)
	}
	return okResult(map[string]any{
		"drives":  letters,
		"summary": fmt.Sprintf("found %d drives", len(drives)),
	}), nil
}

type storageListTool struct{}

func (storageListTool) Name() string        { return "system_storage_list" }
func (storageListTool) Description() string { return "List drives and free space" }

func (storageListTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	if letter := argString(args, "drive"); letter != "" {
		d, ok := findDrive(letter)
		if !ok {
			return failResult("system_storage_list: no drive %s", letter), nil
		}
		return okResult(map[string]any{
			"drive":   d.Letter,
			"free_gb": d.FreeGB,
			"total_gb": d.TotalGB,
			"summary": fmt.Sprintf("drive %s has %d GB free of %d GB", d.Letter, d.FreeGB, d.TotalGB),
		}), nil
	}

	infos := make([]any, 0, len(drives))
	for _, d := range drives {
		infos = append(infos, map[string]any{
			"drive": d.Letter, "label": d.Label,
			"free_gb": d.FreeGB, "total_gb": d.TotalGB,
		})
	}
	return okResult(map[string]any{
		"drives":  infos,
		"summary": fmt.Sprintf("%d drives attached", len(drives)),
	}), nil
}

type storageOpenTool struct{}

func (storageOpenTool) Name() string        { return "system_storage_open" }
func (storageOpenTool) Description() string { return "Open a drive in the file browser" }

func (storageOpenTool) Execute(_ context.Context, args map[string]any) (protocol.ToolResult, error) {
	letter := argString(args, "drive")
	if letter == "" {
		return failResult("system_storage_open: missing drive"), nil
	}
	if _, ok := findDrive(letter); !ok {
		return failResult("system_storage_open: no drive %s", letter), nil
	}
	return okResult(map[string]any{
		"drive":   letter,
		"summary": "opened drive " + letter,
	}), nil
}
