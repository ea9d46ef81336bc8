// Package main provides the CLI entrypoint for noticectl.
package main

func main() {
	Execute()
}
