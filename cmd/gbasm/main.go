// Command gbasm assembles Game Boy cartridge images from assembly source
// and exposes the static-analysis tools (lint, fmt, xref) as a CLI around
// the gbasm library.
package main

import "github.com/lookbusy1344/gbasm/cmd/gbasm/cmd"

func main() {
	cmd.Execute()
}
