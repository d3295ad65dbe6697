package export

import (
	"fmt"
	"strings"

	"github.com/aiwonderland/imagecode/internal/domain/codegen"
)

const nextPackageJSON = `{
  "name": "%s",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "start": "next start",
    "lint": "next lint"
  },
  "dependencies": {
    "next": "16.0.0",
    "react": "19.2.0",
    "react-dom": "19.2.0"
  },
  "devDependencies": {
    "@types/node": "^20",
    "@types/react": "^19",
    "@types/react-dom": "^19",
    "typescript": "^5"
  }
}`

const vitePackageJSON = `{
  "name": "%s",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "vite",
    "build": "vite build",
    "preview": "vite preview"
  },
  "dependencies": {
    "react": "19.2.0",
    "react-dom": "19.2.0"
  },
  "devDependencies": {
    "@vitejs/plugin-react": "^4.2.0",
    "vite": "^5.0.0"
  }
}`

const readme = "# %[1]s\n" +
	"\n" +
	"Generated with AI Wonderland Image-to-Code\n" +
	"\n" +
	"## Framework\n" +
	"\n" +
	"%[2]s\n" +
	"\n" +
	"## Getting Started\n" +
	"\n" +
	"1. Install dependencies:\n" +
	"   ```bash\n" +
	"   npm install\n" +
	"   ```\n" +
	"\n" +
	"2. Run development server:\n" +
	"   ```bash\n" +
	"   npm run dev\n" +
	"   ```\n" +
	"\n" +
	"3. Build for production:\n" +
	"   ```bash\n" +
	"   npm run build\n" +
	"   ```\n" +
	"\n" +
	"## Learn More\n" +
	"\n" +
	"- [AI Wonderland Documentation](https://github.com/AI-WONDER-LABs)\n" +
	"- [%[3]s Documentation](https://%[2]s.dev)\n"

// packageJSON returns the package.json for npm based frameworks.
func packageJSON(project string, f codegen.Framework) (string, bool) {
	switch f {
	case codegen.FrameworkNextJS:
		return fmt.Sprintf(nextPackageJSON, project), true
	case codegen.FrameworkReact:
		return fmt.Sprintf(vitePackageJSON, project), true
	default:
		return "", false
	}
}

func readmeFor(project string, f codegen.Framework) string {
	return fmt.Sprintf(readme, project, f, title(string(f)))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
