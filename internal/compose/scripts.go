package compose

// Script is one generated operator wrapper.
type Script struct {
	Name    string
	Content string
}

// Scripts returns the five operator wrappers in a fixed order. Each changes
// to its own directory first so they work from anywhere.
func Scripts() []Script {
	return []Script{
		{"start.sh", script("docker compose up -d")},
		{"stop.sh", script("docker compose down")},
		{"status.sh", script("docker compose ps\necho\ndocker compose logs --tail=50")},
		{"update.sh", script("docker compose pull\ndocker compose up -d")},
		{"logs.sh", script("docker compose logs -f")},
	}
}

func script(body string) string {
	return "#!/bin/sh\nset -e\ncd \"$(dirname \"$0\")\"\n" + body + "\n"
}
