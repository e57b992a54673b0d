// Package script loads task definitions from Starlark scripts. A tasks.star
// file declares options at module scope and tasks inside a configure()
// function; the resulting graph overlays the built-in pipeline. Parsed results
// can be cached on disk so repeated invocations skip re-evaluation.
package script
