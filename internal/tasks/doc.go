// Package tasks orchestrates long-running catalog operations with real-time
// progress reporting.
//
// [Exporter.ExportAll] writes every selected playlist to disk in a chosen
// format (json, csv, markdown, txt) through a bounded, rate-limited worker
// pool, then writes a manifest summarizing the run. Per-playlist failures are
// recorded and skipped so one broken playlist never aborts the export.
//
// Progress flows through a non-blocking channel of [ProgressUpdate] values so
// a slow consumer can never stall the workers.
package tasks
