// Package calculator implements the Calculator task: a framebuffer keypad over the calc core.
//
// The task receives key and tap messages from the input service, applies the mapped actions to its
// calc.State and redraws the whole screen after every message.
package calculator
