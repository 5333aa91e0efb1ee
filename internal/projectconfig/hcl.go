package projectconfig

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclTechBlock is a single `tech "<name>" { ... }` block. Its argument body
// is captured raw via `,remain` and decoded into a cty.Value map separately,
// since tech arguments are arbitrary key/value pairs whose shape is owned
// by the (out of scope) tech plugin, not by this package.
type hclTechBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type hclEnvBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

type hclNodeModeBlock struct {
	Name         string         `hcl:"name,label"`
	Targets      []string       `hcl:"targets,optional"`
	CleanTargets []string       `hcl:"clean_targets,optional"`
	Languages    []string       `hcl:"languages,optional"`
	Techs        []hclTechBlock `hcl:"tech,block"`
}

type hclNodeBlock struct {
	Path         string             `hcl:"path,label"`
	Targets      []string           `hcl:"targets,optional"`
	CleanTargets []string           `hcl:"clean_targets,optional"`
	Languages    []string           `hcl:"languages,optional"`
	Techs        []hclTechBlock     `hcl:"tech,block"`
	Modes        []hclNodeModeBlock `hcl:"mode,block"`
}

type hclNodeMaskBlock struct {
	Pattern      string         `hcl:"pattern,label"`
	Targets      []string       `hcl:"targets,optional"`
	CleanTargets []string       `hcl:"clean_targets,optional"`
	Languages    []string       `hcl:"languages,optional"`
	Techs        []hclTechBlock `hcl:"tech,block"`
}

type hclModeBlock struct {
	Name      string         `hcl:"name,label"`
	Languages []string       `hcl:"languages,optional"`
	Env       *hclEnvBlock   `hcl:"env,block"`
	Nodes     []hclNodeBlock `hcl:"node,block"`
}

type hclTaskBlock struct {
	Name    string   `hcl:"name,label"`
	Command []string `hcl:"command,optional"`
}

type hclLevelBlock struct {
	Path          string `hcl:"path,label"`
	BuildLevel    string `hcl:"build_level"`
	BuildFilePath string `hcl:"build_file_path"`
}

// hclRoot is the top-level shape of a rule file.
type hclRoot struct {
	Language    []string           `hcl:"language,optional"`
	IncludeFile []string           `hcl:"include_file,optional"`
	Env         *hclEnvBlock       `hcl:"env,block"`
	Nodes       []hclNodeBlock     `hcl:"node,block"`
	NodeMasks   []hclNodeMaskBlock `hcl:"node_mask,block"`
	Modes       []hclModeBlock     `hcl:"mode,block"`
	Tasks       []hclTaskBlock     `hcl:"task,block"`
	Levels      []hclLevelBlock    `hcl:"level,block"`
}

// EvaluateFile parses the HCL rule file at path and mutates cfg to reflect
// everything it declares: node-configs, node-mask-configs, mode-configs,
// task-configs, languages, env, the included-file list, and level naming
// schemes. This is the evaluator half of spec.md §9's "declarative data
// file plus a small evaluator" re-architecture of the rule DSL.
func EvaluateFile(cfg *Config, path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return diags
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return diags
	}

	if len(root.Language) > 0 {
		cfg.SetLanguages(root.Language)
	}
	for _, inc := range root.IncludeFile {
		cfg.AddIncludedFile(inc)
	}
	if root.Env != nil {
		env, err := decodeEnvBody(root.Env.Remain)
		if err != nil {
			return err
		}
		cfg.SetEnv(env)
	}

	for _, n := range root.Nodes {
		nodeCfg, err := decodeNodeBlock(n)
		if err != nil {
			return err
		}
		cfg.RegisterNode(nodeCfg)
	}

	for _, m := range root.NodeMasks {
		techs, err := decodeTechs(m.Techs)
		if err != nil {
			return err
		}
		cfg.RegisterNodeMask(&NodeMaskConfig{
			Pattern:      m.Pattern,
			Languages:    m.Languages,
			Targets:      m.Targets,
			CleanTargets: m.CleanTargets,
			Techs:        techs,
		})
	}

	for _, md := range root.Modes {
		modeCfg := &ModeConfig{Name: md.Name, Languages: md.Languages}
		if md.Env != nil {
			env, err := decodeEnvBody(md.Env.Remain)
			if err != nil {
				return err
			}
			modeCfg.Env = env
		}
		for _, n := range md.Nodes {
			nodeCfg, err := decodeNodeBlock(n)
			if err != nil {
				return err
			}
			modeCfg.Nodes = append(modeCfg.Nodes, nodeCfg)
		}
		cfg.RegisterMode(modeCfg)
	}

	for _, t := range root.Tasks {
		cfg.RegisterTask(&TaskConfig{Name: t.Name, Command: t.Command})
	}

	for _, lvl := range root.Levels {
		cfg.SetLevelScheme(lvl.Path, LevelScheme{
			BuildLevel:    lvl.BuildLevel,
			BuildFilePath: lvl.BuildFilePath,
		})
	}

	return nil
}

func decodeNodeBlock(n hclNodeBlock) (*NodeConfig, error) {
	techs, err := decodeTechs(n.Techs)
	if err != nil {
		return nil, err
	}
	nodeCfg := &NodeConfig{
		Path:         n.Path,
		Languages:    n.Languages,
		Targets:      n.Targets,
		CleanTargets: n.CleanTargets,
		Techs:        techs,
	}
	if len(n.Modes) > 0 {
		nodeCfg.ModeOverrides = make(map[string]*NodeConfig, len(n.Modes))
		for _, md := range n.Modes {
			overrideTechs, err := decodeTechs(md.Techs)
			if err != nil {
				return nil, err
			}
			nodeCfg.ModeOverrides[md.Name] = &NodeConfig{
				Path:         n.Path,
				Languages:    md.Languages,
				Targets:      md.Targets,
				CleanTargets: md.CleanTargets,
				Techs:        overrideTechs,
			}
		}
	}
	return nodeCfg, nil
}

func decodeTechs(blocks []hclTechBlock) ([]TechConfig, error) {
	techs := make([]TechConfig, 0, len(blocks))
	for _, b := range blocks {
		args, err := decodeAttrsToCty(b.Remain)
		if err != nil {
			return nil, err
		}
		techs = append(techs, TechConfig{Name: b.Name, Args: args})
	}
	return techs, nil
}

// decodeAttrsToCty evaluates every attribute in body as a literal
// expression (no variables, no functions) and returns the resulting
// cty.Value map. Rule files are declarative data, not scripts, so this is
// sufficient for the arguments a tech block carries.
func decodeAttrsToCty(body hcl.Body) (map[string]cty.Value, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("decoding attribute %q: %w", name, diags)
		}
		values[name] = val
	}
	return values, nil
}

func decodeEnvBody(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	env := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("decoding env attribute %q: %w", name, diags)
		}
		str, err := ctyToString(val)
		if err != nil {
			return nil, fmt.Errorf("env attribute %q: %w", name, err)
		}
		env[name] = str
	}
	return env, nil
}

func ctyToString(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return v.AsBigFloat().String(), nil
	case cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("unsupported env value type %s", v.Type().FriendlyName())
	}
}
