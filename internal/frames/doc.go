// Package frames grabs the first and last frame of video files with ffmpeg.
//
// For every qualifying video two PNGs are written next to the source:
// <name>-first.png and <name>-last.png. Videos are processed one at a time
// and a failure on one video does not stop the rest of the batch.
package frames
