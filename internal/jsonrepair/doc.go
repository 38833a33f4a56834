// Package jsonrepair extracts a JSON object embedded in free text returned by a
// language model and repairs the punctuation and escaping mistakes models
// commonly make (trailing commas, stray control characters, unescaped quotes
// inside string values, missing commas between sibling values).
//
// Repair is staged: each stage transforms the output of the previous one and
// is only attempted when the previous parse failed. The repair never invents
// field values; it only changes delimiters and escaping.
package jsonrepair
