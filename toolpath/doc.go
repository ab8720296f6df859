// Package toolpath generates g-code programs for drilling and profiling.
//
// Every generator is a pure function returning a gcode.Program. Programs are
// meant to be chained, so each one documents the distance mode (G90 absolute
// or G91 relative) it expects on entry and leaves in force, and the spindle
// height it expects on entry. Unless stated otherwise the spindle is
// returned to the entry height and position before the program ends.
//
// Relative programs assume the work surface is clearance below the entry
// height, and a cut of depth d goes d below the surface.
package toolpath
