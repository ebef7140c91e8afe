// vdftool is a CLI utility for working with Two Worlds VDF model files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/antaloor-vdf/internal/batch"
	"github.com/Faultbox/antaloor-vdf/internal/config"
	"github.com/Faultbox/antaloor-vdf/internal/convert"
	"github.com/Faultbox/antaloor-vdf/internal/logger"
	"github.com/Faultbox/antaloor-vdf/internal/texture"
	"github.com/Faultbox/antaloor-vdf/pkg/formats"
	"github.com/Faultbox/antaloor-vdf/pkg/ntf"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "verify":
		cmdVerify(args)
	case "export":
		cmdExport(args)
	case "import":
		cmdImport(args)
	case "mtr":
		cmdMTR(args)
	case "batch":
		cmdBatch(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vdftool - Two Worlds VDF model utility

Usage:
  vdftool [global options] <command> [options] <path>

Commands:
  info <file.vdf>                Show model summary
  tree <file.vdf>                Dump the chunk tree
  verify <file.vdf>              Check byte-exact reserialization
  export [options] <file.vdf>    Convert VDF to OBJ + MTL + metadata
  import [options] <file.obj>    Convert OBJ to VDF + MTR
  mtr [options] <file.obj>       Build only the MTR material file
  batch [options] <folder>       Convert every VDF pair in a folder

Global options:
  -config <path>   Config file (default: ./vdftool.yaml, then the user dir)
  -debug           Enable debug logging
  -shader, -workers, -textures, -output   Override the matching config values

Examples:
  vdftool info barrel.vdf
  vdftool export -o ./out -textures /games/tw1/Textures barrel.vdf
  vdftool import -o ./out -shader equipment_base barrel.obj
  vdftool -debug batch -o ./converted -r -workers 8 ./models`)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func parseOrDie(path string) *ntf.Node {
	root, err := ntf.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool info <file.vdf>")
		os.Exit(1)
	}
	root := parseOrDie(args[0])

	fmt.Printf("Model: %s\n", args[0])
	fmt.Printf("Nodes: %d\n", ntf.CountNodes(root))

	meshes := convert.ExtractMeshes(root)
	fmt.Printf("Meshes: %d\n", len(meshes))
	for _, mesh := range meshes {
		fmt.Printf("  %-24s %6d verts %6d tris", mesh.Name,
			len(mesh.Vertices), len(mesh.Triangles))
		if mesh.Material != nil {
			fmt.Printf("  shader=%s tex=%s", mesh.Material.ShaderName, mesh.Material.TexDiffuse)
		}
		fmt.Println()
	}

	shaders := ntf.FindShaders(root)
	if len(shaders) > 0 {
		fmt.Println("Shaders:")
		for _, s := range shaders {
			name, _ := s.Str("Name")
			shaderName, _ := s.Str("ShaderName")
			fmt.Printf("  %-24s %s\n", name, shaderName)
		}
	}
}

func cmdTree(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool tree <file.vdf>")
		os.Exit(1)
	}
	root := parseOrDie(args[0])
	printNode(root, 0)
}

func printNode(n *ntf.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.HasType {
		fmt.Printf("%s[node type=%d]\n", indent, n.Type)
	} else {
		fmt.Printf("%s[root]\n", indent)
	}
	for _, e := range n.Entries {
		switch {
		case e.Chunk != nil:
			fmt.Printf("%s  %s %s = %s\n", indent, e.Chunk.Kind, e.Chunk.Name, chunkValue(e.Chunk))
		case e.Child != nil:
			printNode(e.Child, depth+1)
		}
	}
}

func chunkValue(c *ntf.Chunk) string {
	switch v := c.Value.(type) {
	case ntf.Text:
		return fmt.Sprintf("%q", string(v))
	case ntf.Raw:
		return fmt.Sprintf("<%d bytes>", len(v))
	case ntf.Vec4F:
		return fmt.Sprintf("(%g, %g, %g, %g)", v[0], v[1], v[2], v[3])
	case ntf.Vec4I:
		return fmt.Sprintf("(%d, %d, %d, %d)", v[0], v[1], v[2], v[3])
	case ntf.Mat4:
		return "<4x4 matrix>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func cmdVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool verify <file.vdf>")
		os.Exit(1)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	root, err := ntf.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if ntf.Verify(data, root) {
		fmt.Printf("%s: OK (%d bytes, reserializes byte-exact)\n", args[0], len(data))
		return
	}
	fmt.Printf("%s: MISMATCH (reserialization differs from input)\n", args[0])
	os.Exit(1)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", ".", "Output directory")
	metaDir := fs.String("meta", "", "Metadata directory (default: output dir)")
	texRoot := fs.String("textures", "", "Textures folder (auto-detected when omitted)")
	lodPath := fs.String("lod", "", "LOD companion file (auto-detected when omitted)")
	noTex := fs.Bool("no-textures", false, "Skip texture copying")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool export [options] <file.vdf>")
		os.Exit(1)
	}
	cfg := loadConfig()
	defer logger.Sync()
	basePath := fs.Arg(0)

	lod := *lodPath
	if lod == "" {
		candidate := strings.TrimSuffix(basePath, filepath.Ext(basePath)) + "_LOD" + filepath.Ext(basePath)
		if _, err := os.Stat(candidate); err == nil {
			lod = candidate
		}
	}

	var texIndex texture.Index
	if !*noTex && cfg.Textures.Copy {
		root := *texRoot
		if root == "" {
			root = cfg.Textures.Root
		}
		if root == "" {
			root = texture.FindTexturesFolder(filepath.Dir(basePath))
		}
		if root != "" {
			texIndex = texture.BuildIndex(root)
		}
	}

	meta := *metaDir
	if meta == "" {
		meta = *output
	}

	objPath, stats, err := convert.ExportVDF(basePath, lod, *output, meta, texIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", objPath)
	fmt.Printf("  groups:    %d (LOD: %v)\n", stats.Groups, stats.HasLOD)
	fmt.Printf("  vertices:  %d\n", stats.TotalVertices)
	fmt.Printf("  triangles: %d\n", stats.TotalTriangles)
	if texIndex != nil {
		fmt.Printf("  textures:  %d copied", stats.TexturesFound)
		if len(stats.TexturesMissing) > 0 {
			fmt.Printf(", missing: %s", strings.Join(stats.TexturesMissing, ", "))
		}
		fmt.Println()
	}
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	output := fs.String("o", ".", "Output directory")
	shader := fs.String("shader", "", "Engine shader name")
	near := fs.Float64("near", -1, "Near render range")
	far := fs.Float64("far", -1, "Far render range")
	metaPath := fs.String("meta", "", "Metadata sidecar to rebuild from")
	noMTR := fs.Bool("no-mtr", false, "Skip the MTR material file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool import [options] <file.obj>")
		os.Exit(1)
	}
	cfg := loadConfig()
	defer logger.Sync()

	opts := convert.ImportOptions{
		Build: convert.BuildOptions{
			ShaderName: cfg.Convert.ShaderName,
			NearRange:  cfg.Convert.NearRange,
			FarRange:   cfg.Convert.FarRange,
		},
		WriteMTR: cfg.Convert.WriteMTR && !*noMTR,
	}
	if *shader != "" {
		opts.Build.ShaderName = *shader
	}
	if *near >= 0 {
		opts.Build.NearRange = float32(*near)
	}
	if *far >= 0 {
		opts.Build.FarRange = float32(*far)
	}
	if *metaPath != "" {
		meta, err := convert.LoadMetadata(*metaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.Metadata = meta
	}

	vdfPath, stats, err := convert.ImportOBJ(fs.Arg(0), *output, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", vdfPath, stats.VDFSize)
	fmt.Printf("  groups:    %d\n", stats.Groups)
	fmt.Printf("  vertices:  %d\n", stats.TotalVertices)
	fmt.Printf("  triangles: %d\n", stats.TotalTriangles)
	if stats.MTRPath != "" {
		fmt.Printf("  materials: %s\n", stats.MTRPath)
	}
	if stats.UsedMetadata {
		fmt.Println("  rebuilt from metadata skeleton")
	}
}

func cmdMTR(args []string) {
	fs := flag.NewFlagSet("mtr", flag.ExitOnError)
	output := fs.String("o", ".", "Output directory")
	shader := fs.String("shader", "", "Engine shader name")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool mtr [options] <file.obj>")
		os.Exit(1)
	}
	cfg := loadConfig()
	defer logger.Sync()
	objPath := fs.Arg(0)

	obj, err := formats.ParseOBJFile(objPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	meshes := convert.ProcessOBJ(obj)
	if len(meshes) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no geometry in %s\n", objPath)
		os.Exit(1)
	}

	opts := convert.DefaultBuildOptions()
	opts.ShaderName = cfg.Convert.ShaderName
	if *shader != "" {
		opts.ShaderName = *shader
	}

	data := convert.BuildMTR(meshes, obj.Materials, opts)

	baseName := strings.TrimSuffix(filepath.Base(objPath), filepath.Ext(objPath))
	mtrPath := filepath.Join(*output, baseName+".mtr")
	if err := os.WriteFile(mtrPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes, %d materials)\n", mtrPath, len(data), len(meshes))
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	output := fs.String("o", "", "Output directory")
	metaDir := fs.String("meta", "", "Metadata directory")
	texRoot := fs.String("textures", "", "Textures folder (auto-detected when omitted)")
	workers := fs.Int("workers", 0, "Worker count (default: CPU count)")
	recursive := fs.Bool("r", false, "Scan subdirectories")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vdftool batch [options] <folder>")
		os.Exit(1)
	}
	cfg := loadConfig()
	defer logger.Sync()
	dir := fs.Arg(0)

	var pairs []batch.Pair
	var err error
	if *recursive || cfg.Batch.Recursive {
		pairs, err = batch.FindPairsRecursive(dir)
	} else {
		pairs, err = batch.FindPairs(dir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(pairs) == 0 {
		fmt.Println("No VDF files found")
		return
	}
	fmt.Printf("Found %d model(s)\n", len(pairs))

	bcfg := batch.Config{
		OutputDir:   cfg.Batch.OutputDir,
		MetadataDir: cfg.Batch.MetadataDir,
		Workers:     cfg.Batch.Workers,
	}
	if *output != "" {
		bcfg.OutputDir = *output
		bcfg.MetadataDir = filepath.Join(*output, "metadata")
	}
	if *metaDir != "" {
		bcfg.MetadataDir = *metaDir
	}
	if *workers > 0 {
		bcfg.Workers = *workers
	}
	if cfg.Textures.Copy {
		root := *texRoot
		if root == "" {
			root = cfg.Textures.Root
		}
		if root == "" {
			root = texture.FindTexturesFolder(dir)
		}
		if root != "" {
			bcfg.TexIndex = texture.BuildIndex(root)
		}
	}

	results := batch.Run(bcfg, pairs)

	var ok, failed int
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
			fmt.Fprintf(os.Stderr, "  FAILED %s: %s\n", r.Display, r.Error)
		}
	}
	fmt.Printf("Converted %d/%d model(s)\n", ok, len(results))

	if cfg.Batch.Manifest {
		manifestPath := filepath.Join(bcfg.OutputDir, "manifest.json")
		if err := batch.WriteManifest(manifestPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Manifest: %s\n", manifestPath)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
