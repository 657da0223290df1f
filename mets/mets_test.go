package mets_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureDir is a Daily Princetonian issue with 30 articles spread over two
// pages. Page 2 is namespaced and linked through the legacy xlink namespace.
const fixtureDir = "testdata/06_01"

const fixtureTitle = "Faculty to consider IDA, student power potentials"

// metsDoc wraps body in a METS root declaring the usual namespaces.
func metsDoc(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<mets:mets xmlns:mets="http://www.loc.gov/METS/" xmlns:mods="http://www.loc.gov/mods/v3" xmlns:xlink="http://www.w3.org/1999/xlink">
` + body + `
</mets:mets>`
}

// altoGroup declares one ALTO file per ID, linked as Pages/<id>.xml.
func altoGroup(ids ...string) string {
	s := `<mets:fileSec><mets:fileGrp ID="ALTOGRP">`
	for _, id := range ids {
		s += `<mets:file ID="` + id + `"><mets:FLocat LOCTYPE="URL" xlink:href="file:///Pages/` + id + `.xml"/></mets:file>`
	}
	return s + `</mets:fileGrp></mets:fileSec>`
}

// altoPage returns a page whose blocks each hold a single word.
func altoPage(blocks map[string]string) string {
	s := `<alto><Layout><Page><PrintSpace>`
	for id, word := range blocks {
		s += `<TextBlock ID="` + id + `"><TextLine><String CONTENT="` + word + `"/></TextLine></TextBlock>`
	}
	return s + `</PrintSpace></Page></Layout></alto>`
}

// writeIssue lays out an issue directory: the structure document plus one
// Pages/<id>.xml file per entry in pages.
func writeIssue(t *testing.T, mets string, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Test_1970-01-01_0001-METS.xml"), []byte(mets), 0644))
	if len(pages) > 0 {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "Pages"), 0755))
	}
	for id, content := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Pages", id+".xml"), []byte(content), 0644))
	}
	return dir
}

func metsPath(dir string) string {
	return filepath.Join(dir, "Test_1970-01-01_0001-METS.xml")
}
