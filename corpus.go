// Package corpus extracts newspaper articles from METS/ALTO encoded issues
// and serializes each article as one JSON line.
//
// A METS structure document maps every logical article to a sequence of
// areas, each pointing at a text block inside one of the issue's ALTO page
// files. Resolving those pointers across files yields the article text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after the format or dependency they wrap (e.g., mets/, alto/, sqlite/, fs/).
package corpus
