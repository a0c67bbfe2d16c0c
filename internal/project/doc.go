// Package project scaffolds Pylight projects and creates files and
// folders inside them.
//
// A project is a directory with src, tests and docs folders, a few
// starter files chosen by Kind, and a manifest at .pylight/project.yaml:
//
//	p, err := project.Create("/home/me/code", "demo", project.KindPython)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p.MainFile()) // /home/me/code/demo/src/main.py
//
// NewFile and NewFolder validate names the same way the IDE dialogs do.
// Creating anything that already exists fails with ErrExists.
package project
