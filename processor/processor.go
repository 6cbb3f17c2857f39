// Package processor provides content processors that split structured
// content into translatable text nodes and reassemble it afterwards.
package processor

import "github.com/ZaguanLabs/lojgloss"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = lojgloss.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = lojgloss.TextNode
