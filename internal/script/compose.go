package script

import (
	"strings"
	"text/template"
)

// InitLog collects the output of every init script
const InitLog = "/tmp/init.log"

// InitDir is where init scripts are written inside the container
const InitDir = "/tmp/krayt-init.d"

// BaseTools are installed in every inspector
var BaseTools = []string{
	"ripgrep", "exa", "ncdu", "dust", "file", "hexyl", "jq", "yq", "bat", "fd", "fzf",
	"htop", "bottom", "difftastic", "mtr", "bind-tools", "aws-cli", "sqlite", "sqlite-dev", "sqlite-libs",
}

// Input is everything the bootstrap script embeds
type Input struct {
	// Mounts are "name:path" entries
	Mounts []string
	// Claims are "volumeName:claimName" entries
	Claims []string
	// Env names the variables passed through to the container
	Env         []string
	InitScripts []InitScript
}

// Composer renders the inspector bootstrap script
type Composer struct {
	packages []Package
}

// NewComposer creates a composer that also installs packages
func NewComposer(packages []Package) *Composer {
	return &Composer{packages: packages}
}

// Compose returns the bootstrap as ordered shell statements: repository
// and proxy setup, init scripts, tool installation, shell profile, MOTD
// and finally a blocking tail.
func (c *Composer) Compose(in Input) []string {
	var s []string
	s = append(s, repositoryStatements()...)
	s = append(s, initStatements(in.InitScripts)...)
	s = append(s, c.installStatements()...)
	s = append(s, profileStatements()...)
	s = append(s, MOTDStatements(in)...)
	s = append(s,
		"",
		"# Keep container running",
		"tail -f /dev/null",
	)
	return s
}

// Script joins the composed statements into one sh -c argument
func (c *Composer) Script(in Input) string {
	return strings.Join(c.Compose(in), "\n")
}

func repositoryStatements() []string {
	return []string{
		"# Configure apk proxy settings",
		"mkdir -p /etc/apk",
		"cat > /etc/apk/repositories << 'EOF'",
		"https://dl-cdn.alpinelinux.org/alpine/latest-stable/main",
		"https://dl-cdn.alpinelinux.org/alpine/latest-stable/community",
		"EOF",
		"",
		`if [ ! -z "$HTTP_PROXY" ]; then`,
		`  echo "Setting up apk proxy configuration..."`,
		"  cat > /etc/apk/repositories << EOF",
		"http://dl-cdn.alpinelinux.org/alpine/latest-stable/main",
		"http://dl-cdn.alpinelinux.org/alpine/latest-stable/community",
		"",
		"# Configure proxy",
		"proxy=$HTTP_PROXY",
		"EOF",
		"fi",
		"",
	}
}

func initStatements(scripts []InitScript) []string {
	if len(scripts) == 0 {
		return nil
	}

	s := []string{
		"# Write and run init scripts",
		"mkdir -p " + InitDir,
		"chmod 700 " + InitDir,
		": > " + InitLog,
	}
	for _, script := range scripts {
		path := shellQuote(InitDir + "/" + script.Name)
		delim := heredocDelimiter(script.Content)
		s = append(s,
			"echo "+shellQuote("=== Running "+script.Name+" ==="),
			"cat > "+path+" << '"+delim+"'",
			strings.TrimSuffix(script.Content, "\n"),
			delim,
			"chmod +x "+path,
			path+" 2>&1 | tee -a "+InitLog,
			"echo "+shellQuote("=== Finished "+script.Name+" ==="),
		)
	}
	s = append(s,
		"echo 'Init script log available at "+InitLog+"'",
		"",
	)
	return s
}

func (c *Composer) installStatements() []string {
	s := []string{
		"# Install basic tools first",
		"apk update",
		"apk add curl",
		"",
		"# Install additional tools",
		"apk add " + strings.Join(BaseTools, " "),
	}
	if extra := InstallCommands(c.packages); len(extra) > 0 {
		s = append(s, "", "# Install requested packages")
		s = append(s, extra...)
	}
	return append(s, "")
}

func profileStatements() []string {
	return []string{
		"# Create .ashrc with MOTD",
		"cat > /root/.ashrc << 'EOF'",
		"# Display MOTD on login",
		"[ -f /etc/motd ] && cat /etc/motd",
		"EOF",
		"",
		"# Set up shell environment",
		"export EDITOR=vi",
		"export PAGER=less",
		"",
		"# Set up environment to always source our RC file",
		"echo 'export ENV=/root/.ashrc' > /etc/profile",
		"echo 'export ENV=/root/.ashrc' > /etc/environment",
		"",
		"# Make RC file available to all shells",
		"mkdir -p /etc/profile.d",
		"cp /root/.ashrc /etc/profile.d/motd.sh",
		"ln -sf /root/.ashrc /root/.profile",
		"ln -sf /root/.ashrc /root/.bashrc",
		"ln -sf /root/.ashrc /root/.mkshrc",
		"ln -sf /root/.ashrc /etc/shinit",
		"",
	}
}

var motdTemplate = template.Must(template.New("motd").Funcs(template.FuncMap{
	"heredoc": heredocEscape,
}).Parse(`# Update MOTD
cat << EOF > /etc/motd
====================================
Krayt Dragon's Lair
A safe haven for volume inspection
====================================

"Inside every volume lies a pearl of wisdom waiting to be discovered."

Mounted Volumes:
{{- range .Mounts}}
- {{heredoc .}}
{{- else}}
- none
{{- end}}

Persistent Volume Claims:
{{- range .Claims}}
- {{heredoc .}}
{{- else}}
- none
{{- end}}

Mounted Secrets:
$(for d in /mnt/secrets/*; do if [ -d "$d" ]; then echo "- $(basename "$d")"; fi; done)
{{- if .Env}}

Environment:
{{- range .Env}}
- {{heredoc .}}
{{- end}}
{{- end}}

Init Script Status:
$(if [ -f ` + InitLog + ` ]; then echo "View initialization log at ` + InitLog + `"; fi)
EOF`))

// MOTDStatements renders the statements that write /etc/motd
func MOTDStatements(in Input) []string {
	var b strings.Builder
	// The template is static and only ranges over strings
	if err := motdTemplate.Execute(&b, in); err != nil {
		panic(err)
	}
	return strings.Split(b.String(), "\n")
}

// heredocEscape makes s literal inside an unquoted heredoc
func heredocEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "$", `\$`, "`", "\\`")
	return r.Replace(s)
}

func heredocDelimiter(body string) string {
	lines := make(map[string]bool)
	for _, l := range strings.Split(body, "\n") {
		lines[l] = true
	}
	delim := "EOFSCRIPT"
	for lines[delim] {
		delim += "_"
	}
	return delim
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
