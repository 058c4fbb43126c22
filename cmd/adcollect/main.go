package main

import "adlibrary-collector/cmd/adcollect/cmd"

func main() {
	cmd.Execute()
}
