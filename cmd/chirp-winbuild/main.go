package main

import "github.com/kk7ds/chirp-winbuild/cmd/chirp-winbuild/cmd"

func main() {
	cmd.Execute()
}
