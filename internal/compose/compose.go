package compose

import (
	"context"
	"fmt"

	"github.com/compose-spec/compose-go/v2/cli"
	"gopkg.in/yaml.v3"

	"github.com/byrnedo/sentinel-setup/internal/config"
)

// File models the generated orchestration descriptor.
type File struct {
	Services map[string]Service `yaml:"services"`
	Volumes  map[string]Volume  `yaml:"volumes,omitempty"`
}

// Service is a single compose service definition.
type Service struct {
	Image         string       `yaml:"image"`
	ContainerName string       `yaml:"container_name,omitempty"`
	Restart       string       `yaml:"restart,omitempty"`
	MemLimit      string       `yaml:"mem_limit,omitempty"`
	Ports         []string     `yaml:"ports,omitempty"`
	EnvFile       []string     `yaml:"env_file,omitempty"`
	Volumes       []string     `yaml:"volumes,omitempty"`
	Tmpfs         []string     `yaml:"tmpfs,omitempty"`
	SecurityOpt   []string     `yaml:"security_opt,omitempty"`
	Healthcheck   *Healthcheck `yaml:"healthcheck,omitempty"`
}

// Healthcheck is the compose health probe block.
type Healthcheck struct {
	Test        []string `yaml:"test,omitempty"`
	Interval    string   `yaml:"interval,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	Retries     int      `yaml:"retries,omitempty"`
	StartPeriod string   `yaml:"start_period,omitempty"`
}

// Volume is a named volume declaration.
type Volume struct {
	Name string `yaml:"name,omitempty"`
}

// Generate builds the descriptor for the Sentinel service from the run config.
func Generate(cfg *config.Config) File {
	port := fmt.Sprintf("%d:%d", cfg.ServicePort, cfg.ServicePort)
	return File{
		Services: map[string]Service{
			"sentinel": {
				Image:         cfg.ImageRef(),
				ContainerName: cfg.ContainerName,
				Restart:       "unless-stopped",
				MemLimit:      cfg.MemoryLimit,
				Ports:         []string{port},
				EnvFile:       []string{".env"},
				Volumes:       []string{cfg.VolumeName + ":/data"},
				Tmpfs:         []string{"/tmp"},
				SecurityOpt:   []string{"no-new-privileges:true"},
				Healthcheck: &Healthcheck{
					Test:        []string{"CMD-SHELL", fmt.Sprintf("nc -z 127.0.0.1 %d || exit 1", cfg.ServicePort)},
					Interval:    cfg.Health.Interval,
					Timeout:     cfg.Health.Timeout,
					Retries:     cfg.Health.Retries,
					StartPeriod: cfg.Health.StartPeriod,
				},
			},
		},
		Volumes: map[string]Volume{
			cfg.VolumeName: {},
		},
	}
}

// Render marshals the descriptor with a generation header. The output is
// deterministic so re-runs can be compared byte for byte.
func Render(cfg *config.Config) ([]byte, error) {
	data, err := yaml.Marshal(Generate(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshalling compose file: %w", err)
	}
	header := "# Generated by sentinel-setup. Re-running the installer overwrites this file\n" +
		"# (the previous version is kept as compose.yaml.bak).\n"
	return append([]byte(header), data...), nil
}

// EnvTemplate is the initial environment file. It is written once and never
// overwritten, so operator-added keys survive re-runs.
const EnvTemplate = `# Sentinel environment configuration.
# Add KEY=value pairs here; the service ships its own defaults.
# Reference: https://altcha.org/docs/v2/sentinel/configuration/
`

// Validate loads path through the compose specification loader and checks
// that the pinned image reference survived generation.
func Validate(ctx context.Context, path, imageRef string) error {
	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithDotEnv,
		cli.WithInterpolation(false),
	)
	if err != nil {
		return fmt.Errorf("project options: %w", err)
	}

	project, err := cli.ProjectFromOptions(ctx, opts)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	for _, svc := range project.Services {
		if svc.Image == imageRef {
			return nil
		}
	}
	return fmt.Errorf("%s: no service references image %s", path, imageRef)
}
