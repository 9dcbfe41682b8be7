// Command levelpack converts level layouts between YAML and msgpack and
// checks that they build.
//
//	levelpack [-check] [-o out.msgpack] levels/city.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/cityfps/collision"
	"github.com/milk9111/cityfps/ecs"
	"github.com/milk9111/cityfps/ecs/entity"
	"github.com/milk9111/cityfps/ecs/system"
	"github.com/milk9111/cityfps/levels"
	"github.com/milk9111/cityfps/prefabs"
)

func main() {
	out := flag.String("o", "", "output path; the extension picks the format (default: input with the other format)")
	check := flag.Bool("check", false, "only build the layout and report problems")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: levelpack [-check] [-o out] <layout>")
		os.Exit(2)
	}
	in := flag.Arg(0)

	lvl, err := levels.LoadFile(in)
	if err != nil {
		log.Fatal("load", "err", err)
	}
	if err := checkLayout(lvl); err != nil {
		log.Fatal("layout does not build", "level", lvl.Name, "err", err)
	}
	log.Info("layout ok", "level", lvl.Name, "props", len(lvl.Props), "entities", len(lvl.Entities))
	if *check {
		return
	}

	dst := *out
	if dst == "" {
		dst = swapExt(in)
	}
	n, err := convert(lvl, dst)
	if err != nil {
		log.Fatal("write", "err", err)
	}
	log.Info("wrote", "path", dst, "bytes", n)
}

// checkLayout builds lvl into a scratch world.
func checkLayout(lvl *levels.Layout) error {
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return err
	}
	w := ecs.NewWorld()
	cw := collision.NewWorld()
	shared := system.NewShared(cw, tuning, system.Ports{}, nil)
	return entity.BuildLevel(w, cw, lvl, shared.Enemies)
}

func convert(lvl *levels.Layout, dst string) (int, error) {
	format, err := levels.FormatOf(dst)
	if err != nil {
		return 0, err
	}
	b, err := levels.Encode(lvl, format)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return 0, err
	}
	return len(b), nil
}

func swapExt(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if f, err := levels.FormatOf(path); err == nil && f == levels.FormatMsgpack {
		return base + ".yaml"
	}
	return base + ".msgpack"
}
