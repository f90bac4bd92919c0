// Package main hosts the pix CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls against the
// internal packages: moving a selection into a subdirectory of the pictures
// root, picking that subdirectory interactively, listing the library, and
// extracting first and last frames from videos. Configuration resolution,
// logging setup, the command lock and failure reporting are centralized in
// commandContext so subcommands only describe their own flow.
package main
