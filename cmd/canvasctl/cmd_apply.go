package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

// applyFlags mirrors the canvasd wire envelope so a human can build one
// intent at the command line without hand-writing JSON.
type applyFlags struct {
	intentType string
	id         string
	parent     string
	source     string
	target     string
	scopeID    string
	newID      string
	label      string
	isGroup    bool
	duringDrag bool
	x, y, w, h float64
	ids        []string
}

func newApplyCmd() *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a single edit intent against a running canvasd",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.intentType, "type", "", "intent type: addNode, deleteNode, moveNode, addEdge, deleteEdge, groupNodes, ungroupNodes, select, deselect, unlockScopeToFree, lockScopeAndDescendants, arrange, geoOnly")
	fl.StringVar(&f.id, "id", "", "target id")
	fl.StringVar(&f.parent, "parent", "", "parent id (addNode, moveNode)")
	fl.StringVar(&f.source, "source", "", "edge source id (addEdge)")
	fl.StringVar(&f.target, "target", "", "edge target id (addEdge)")
	fl.StringVar(&f.scopeID, "scope", "", "scope group id (arrange, unlockScopeToFree, lockScopeAndDescendants)")
	fl.StringVar(&f.newID, "new-id", "", "new group id (groupNodes)")
	fl.StringVar(&f.label, "label", "", "node/group label")
	fl.BoolVar(&f.isGroup, "group", false, "create as a group (addNode)")
	fl.BoolVar(&f.duringDrag, "during-drag", false, "mid-gesture hint (unlockScopeToFree)")
	fl.Float64Var(&f.x, "x", 0, "x position")
	fl.Float64Var(&f.y, "y", 0, "y position")
	fl.Float64Var(&f.w, "w", 0, "width")
	fl.Float64Var(&f.h, "h", 0, "height")
	fl.StringSliceVar(&f.ids, "ids", nil, "id list (select, deselect, groupNodes)")
	cmd.MarkFlagRequired("type")
	return cmd
}

func runApply(f applyFlags) error {
	body, err := json.Marshal(map[string]any{
		"type":       f.intentType,
		"id":         f.id,
		"parentId":   f.parent,
		"source":     f.source,
		"target":     f.target,
		"scopeId":    f.scopeID,
		"newId":      f.newID,
		"label":      f.label,
		"isGroup":    f.isGroup,
		"duringDrag": f.duringDrag,
		"x":          f.x,
		"y":          f.y,
		"w":          f.w,
		"h":          f.h,
		"ids":        f.ids,
	})
	if err != nil {
		return fmt.Errorf("canvasctl: encode request: %w", err)
	}

	resp, err := http.Post(serverAddr+"/v1/apply", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("canvasctl: request canvasd: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("canvasctl: canvasd rejected apply (%s): %s", resp.Status, msg)
	}
	fmt.Println("applied")
	return nil
}
