// Command axgrep is a recursive, parallel source-code search tool in
// the style of ag/ack/ripgrep.
package main

import "os"

func main() {
	os.Exit(Execute())
}
