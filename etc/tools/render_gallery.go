package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"survival-dashboard/internal/dataset"
	"survival-dashboard/internal/features/charts"
	storage "survival-dashboard/internal/infra/fs"
)

// go run etc/tools/render_gallery.go [dataset.csv]
// writes every figure to etc/charts/<figureN>.png for a quick visual check
func main() {
	source := "internal/dataset/testdata/train_sample.csv"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	table, err := dataset.Load(context.Background(), source, dataset.Options{})
	if err != nil {
		fmt.Printf("Error loading dataset: %v\n", err)
		os.Exit(1)
	}

	renderer := charts.NewRenderer(table)
	failed := 0
	for _, k := range charts.Kinds() {
		img, err := renderer.Draw(k)
		if err != nil {
			fmt.Printf("%s: %v\n", k, err)
			failed++
			continue
		}
		data, err := charts.EncodePNG(img)
		if err != nil {
			fmt.Printf("%s: %v\n", k, err)
			failed++
			continue
		}
		path := filepath.Join("etc", "charts", k.String()+".png")
		if err := storage.SaveFile(path, data); err != nil {
			fmt.Printf("%s: %v\n", k, err)
			failed++
			continue
		}
		fmt.Printf("%s -> %s\n", k, path)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
