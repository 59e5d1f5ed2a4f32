// Package main implements the worldsmith CLI: the content pipeline that
// turns authored layout and beats documents into the engine-facing world
// artifacts.
package main

func main() {
	Execute()
}
