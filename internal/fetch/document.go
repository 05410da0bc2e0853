// internal/fetch/document.go
package fetch

import "encoding/xml"

// Document mirrors the dedicated-server-stats.xml feed.
// All attributes are optional on the wire; absence of the server name
// is what distinguishes "host reachable, game not running".
type Document struct {
	XMLName xml.Name `xml:"Server"`
	Name    string   `xml:"name,attr"`
	MapName string   `xml:"mapName,attr"`
	Slots   Slots    `xml:"Slots"`
}

// Slots is the fixed slot table of the server.
type Slots struct {
	Capacity string       `xml:"capacity,attr"`
	NumUsed  string       `xml:"numUsed,attr"`
	Players  []PlayerSlot `xml:"Player"`
}

// PlayerSlot is one slot entry; unused slots carry isUsed="false" and
// no text content.
type PlayerSlot struct {
	IsUsed  string `xml:"isUsed,attr"`
	IsAdmin string `xml:"isAdmin,attr"`
	Uptime  string `xml:"uptime,attr"`
	Name    string `xml:",chardata"`
}
