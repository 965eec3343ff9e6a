// Package source supplies (identifier, text) items to the pipeline: DirReader
// for batch directories and Console for interactive sessions.
package source
