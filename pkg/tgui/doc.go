// Package tgui provides small Telegram text helpers:
//   - HTML escaping and emphasis spans for ParseMode="HTML"
//   - Rune-aware length and truncation helpers
//
// Values of type H are already escaped and safe to concatenate.
package tgui
