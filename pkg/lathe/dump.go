package lathe

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/lathser/pkg/raster"
)

// DumpDir returns a DumpFunc writing pass rasters to dir as passNN.png.
func DumpDir(dir string) DumpFunc {
	return func(p Pass, r *raster.Raster) error {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("pass%02d.png", p.Index)))
		if err != nil {
			return err
		}
		if err := r.WritePNG(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}
