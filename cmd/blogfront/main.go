// Command blogfront serves the blog, previews its index in the terminal and
// scaffolds new sites.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
