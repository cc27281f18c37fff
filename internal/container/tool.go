// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"fmt"
	"io"
)

// Tool is a command-line program that reads stdin and writes stdout. It may
// run on the host or inside a container image; callers do not care which.
type Tool interface {
	// Name describes where the tool runs, e.g. "pdftotext" or "docker:minidocks/poppler".
	Name() string

	// Run invokes the tool with args.
	Run(args []string, stdin io.Reader, stdout io.Writer) error
}

// hostTool runs a binary found on PATH.
type hostTool struct {
	path string
	bin  string
	exec executor
}

func (h *hostTool) Name() string { return h.bin }

func (h *hostTool) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	if err := h.exec.RunPiped(h.path, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s: %w", h.bin, err)
	}
	return nil
}

// imageTool runs a command inside a container image.
type imageTool struct {
	rt      Runtime
	image   string
	command string
}

func (i *imageTool) Name() string { return i.rt.Name() + ":" + i.image }

func (i *imageTool) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, len(args)+1)
	full = append(full, i.command)
	full = append(full, args...)
	return i.rt.Run(i.image, full, stdin, stdout)
}

// FindTool prefers bin on the host PATH. When it is missing, it falls back to
// running bin inside image with docker or podman, which requires the image
// to be present locally.
func FindTool(bin, image string) (Tool, error) {
	return findTool(defaultExec, bin, image)
}

func findTool(exec executor, bin, image string) (Tool, error) {
	if path, err := exec.LookPath(bin); err == nil {
		return &hostTool{path: path, bin: bin, exec: exec}, nil
	}

	rt, err := detectRuntime(exec)
	if err != nil {
		return nil, fmt.Errorf("%s not on PATH and %w", bin, err)
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("%s not on PATH: %w", bin, err)
	}
	return &imageTool{rt: rt, image: image, command: bin}, nil
}
