package compiler

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const feedMain = `package main

import (
	"fmt"
	"os"

	"github.com/sapodata/odatagen/pkg/odata"
)

func main() {
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	feed, err := odata.DecodeFeed[BusinessPartner](raw)
	if err != nil {
		panic(err)
	}
	first := feed.Payloads()[0]
	fmt.Printf("namespace=%s\n", feed.Namespace)
	fmt.Printf("entries=%d\n", len(feed.Entries))
	fmt.Printf("city=%s\n", *first.Address.City)
	fmt.Printf("company=%s\n", first.CompanyName)
	fmt.Printf("currency=%s\n", first.CurrencyCode)
	fmt.Printf("key=%s\n", first.KeyPredicate())
	fmt.Printf("meta=%s\n", GetBusinessPartnerMetadata().Key[0].Name)
}
`

// TestGeneratedPackage_DecodesFeed compiles the generated gwsample package
// together with a small program and decodes the fixture feed through the
// generated BusinessPartner type.
func TestGeneratedPackage_DecodesFeed(t *testing.T) {
	if testing.Short() {
		t.Skip("builds generated code")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	opts := sampleOptions()
	opts.Package = "main"
	res, err := CompileFile(samplePath, opts)
	require.NoError(t, err)
	require.True(t, res.Formatted)
	require.False(t, res.Diagnostics.HasErrors())

	// The program must live inside this module to import pkg/odata.
	require.NoError(t, os.MkdirAll("testdata", 0o755))
	dir, err := os.MkdirTemp("testdata", "gwsample-")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, res.FileName), res.Source, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, res.MetadataFileName), res.MetadataSource, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(feedMain), 0o644))

	feed, err := filepath.Abs("../../testdata/business_partner_feed.xml")
	require.NoError(t, err)

	cmd := exec.Command(goBin, "run", ".", feed)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "generated package failed to run:\n%s", out)

	require.Equal(t, `namespace=http://www.w3.org/2005/Atom
entries=5
city=Walldorf
company=SAP
currency=EUR
key=('0100000000')
meta=BusinessPartnerID
`, string(out))
}
