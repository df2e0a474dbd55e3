package main

import "github.com/fastygo/taskflow/cmd/taskflow/root"

func main() {
	root.Execute()
}
