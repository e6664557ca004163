package main

import "github.com/israice/ToDo-Game/cmd/qb/root"

func main() {
	root.Execute()
}
