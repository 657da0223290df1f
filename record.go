package corpus

// Record is one article as written to an issue's output stream.
type Record struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// Meta holds article metadata. Absent values serialize as null.
type Meta struct {
	Title *string `json:"title"`
	Date  *string `json:"date"`
}
