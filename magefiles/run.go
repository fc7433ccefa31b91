//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Composes the demo scene shipped under assets/.
func (Run) Demo() error {
	fmt.Println("Composing demo scene...")
	if _, err := executeCmd("go",
		withArgs("run", "main.go", "-deck", "assets/in.demo", "-root", "assets", "-out", "out"),
		withStream()); err != nil {
		return err
	}
	return nil
}

// Composes the demo scene and recomposes whenever an asset changes.
func (Run) Watch() error {
	fmt.Println("Watching demo scene...")
	if _, err := executeCmd("go",
		withArgs("run", "main.go", "-watch", "-deck", "assets/in.demo", "-root", "assets", "-out", "out"),
		withStream()); err != nil {
		return err
	}
	return nil
}
