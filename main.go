// Package main is the entry point for vt, the Vittlify list client.
package main

import "vittlify/cmd"

func main() {
	cmd.Execute()
}
