// Package layout is a paginated, bilingual PDF layout engine built on fpdf.
//
// A RenderContext tracks the current page and a vertical cursor. Every renderer
// measures its content block first and asks the context to start a new page when the
// block would cross the bottom margin, so fpdf's own auto page break stays off.
// Headers, footers and the optional watermark are not drawn while content flows; Finish
// stamps them on every page once the total page count is known.
//
// Key Features:
//
// - Two-column English/Arabic text with independent wrapping per column
// - Findings tables whose header band repeats on continuation pages
// - Photo grids where an undecodable photo becomes a placeholder instead of an error
// - Optional PDF letterhead drawn behind every page
// - Watermark on its own optional content layer
//
// Main Functions:
//
// - NewRenderContext: starts a document with the cursor at the top margin
// - Bilingual, Paragraph, Heading: text blocks
// - Findings, PhotoGrid: inspection sections
// - Finish: deferred header/footer pass and PDF output
package layout
