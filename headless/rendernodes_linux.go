package headless

import (
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// RenderNode is a DRM render node and whether this process may open it.
type RenderNode struct {
	Path string
	Err  error
}

// RenderNodes lists the render nodes matching pattern with their access
// check. GPU drivers open these for headless EGL displays. The only error
// is a malformed pattern.
func RenderNodes(pattern string) ([]RenderNode, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("render nodes %q: %w", pattern, err)
	}
	nodes := make([]RenderNode, 0, len(paths))
	for _, p := range paths {
		nodes = append(nodes, RenderNode{Path: p, Err: unix.Access(p, unix.R_OK|unix.W_OK)})
	}
	return nodes, nil
}

// logRenderNodes explains a missing EGL display: usually the render nodes
// are absent from a container or the user is not in the render group.
func logRenderNodes() {
	nodes, err := RenderNodes("/dev/dri/renderD*")
	if err != nil {
		log.Println(err)
		return
	}
	if len(nodes) == 0 {
		log.Println("No DRM render nodes under /dev/dri; only software rendering is possible.")
		return
	}
	for _, n := range nodes {
		if n.Err != nil {
			log.Printf("Render node %s is not accessible: %v", n.Path, n.Err)
		} else {
			log.Printf("Render node %s is accessible.", n.Path)
		}
	}
}
