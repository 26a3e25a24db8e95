// Package ui provides the terminal interface components for ecehelper.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────┐
//	│ Header (title, conversation, mode)                   │
//	├───────────────┬──────────────────────────────────────┤
//	│               │                                      │
//	│   Sidebar     │   Chat panel or Practical view       │
//	│ (resizable)   │                                      │
//	│               │                                      │
//	├───────────────┴──────────────────────────────────────┤
//	│ Footer (context-aware shortcuts)                     │
//	└──────────────────────────────────────────────────────┘
//
// ViewContext owns all size math. The sidebar width is stored in pixels,
// as persisted by the session store, and converted to columns with
// PixelsPerColumn.
//
// # Components
//
// Sidebar lists conversations newest first with a busy spinner per
// conversation and a / search over titles and message text.
//
// Chat renders the history of the active conversation with markdown and
// chroma-highlighted code, a thinking stopwatch while a reply is pending,
// and the character-by-character reveal of a staged reply. Reveal state is
// kept per conversation so switching away does not lose a reply.
//
// PracticalView shows a generated MATLAB practical as tabs: theory,
// brute-force code, optimized code and the LaTeX report.
//
// Modal hosts a dialog from the modals package.
//
// # Styles
//
// Styles are package variables rebuilt by SetTheme. Components read them at
// render time, so a theme switch takes effect on the next frame.
package ui
