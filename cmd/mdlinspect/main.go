// Command mdlinspect loads an MDL/VVD/VTX trio and prints a summary: bone
// count, body-part/model/mesh counts, vertex count, bounding box, skin
// family count.
package main

import (
	"flag"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"srcmdl"
	"srcmdl/internal/skeleton"
)

// config holds the optional settings read from a YAML file. SearchRoots is
// only logged at debug level; model paths on the command line are opened
// as given.
type config struct {
	SearchRoots []string `yaml:"search_roots"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "./mdlinspect.yaml", "optional YAML config path")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("mdlinspect: load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if len(cfg.SearchRoots) > 0 {
		slog.Debug("mdlinspect: config loaded", "search_roots", cfg.SearchRoots)
	}

	args := flag.Args()
	if len(args) == 0 {
		slog.Error("mdlinspect: usage: mdlinspect <model-path-prefix>...")
		os.Exit(1)
	}

	for _, path := range args {
		inspectOne(path)
	}
}

func inspectOne(path string) {
	m, err := srcmdl.FromPath(path)
	if err != nil {
		slog.Error("mdlinspect: load model", "path", path, "err", err)
		return
	}

	meshes, err := m.Meshes()
	if err != nil {
		slog.Warn("mdlinspect: mesh join mismatch", "path", path, "err", err)
	}

	min, max := m.BoundingBox()

	bodyParts, models := 0, 0
	bodyParts = len(m.Mdl.BodyParts)
	for _, bp := range m.Mdl.BodyParts {
		models += len(bp.Models)
	}

	slog.Info("mdlinspect: summary",
		"path", path,
		"bones", len(m.Mdl.Bones),
		"body_parts", bodyParts,
		"models", models,
		"meshes", len(meshes),
		"vertices", len(m.Vertices()),
		"skin_families", len(m.SkinTables()),
		"bbox_min", min,
		"bbox_max", max,
	)

	if len(m.Mdl.Attachments) > 0 {
		worlds := skeleton.WorldMatrices(m.Mdl.Bones)
		for _, a := range m.Mdl.Attachments {
			pos := skeleton.AttachmentWorldPosition(worlds, a)
			slog.Debug("mdlinspect: attachment", "path", path, "name", a.Name, "bone", a.Bone, "world_pos", pos)
		}
	}
}
