package catalog

// Built-in plugin IDs.
const (
	Turborepo     ID = "turborepo"
	TypeScript    ID = "typescript"
	NextJS        ID = "nextjs"
	ReactVite     ID = "react-vite"
	NestJS        ID = "nestjs"
	Tailwind      ID = "tailwind"
	Postgres      ID = "postgres"
	Drizzle       ID = "drizzle"
	Prisma        ID = "prisma"
	AuthJS        ID = "authjs"
	Clerk         ID = "clerk"
	Vitest        ID = "vitest"
	Jest          ID = "jest"
	ESLint        ID = "eslint"
	Prettier      ID = "prettier"
	Biome         ID = "biome"
	Husky         ID = "husky"
	Docker        ID = "docker"
	DockerCompose ID = "docker-compose"
	GitHubActions ID = "github-actions"
)

var builtin = MustNew(
	Definition{
		ID:          Turborepo,
		Name:        "Turborepo",
		Description: "Monorepo build system with workspace pipelines",
		Category:    CategoryMonorepo,
		AutoEnables: []ID{TypeScript},
		Priority:    0,
	},
	Definition{
		ID:          TypeScript,
		Name:        "TypeScript",
		Description: "Shared tsconfig and compiler setup",
		Category:    CategoryLanguage,
		AutoEnable:  true,
		Priority:    10,
	},
	Definition{
		ID:          NextJS,
		Name:        "Next.js",
		Description: "React framework for the web app",
		Category:    CategoryFramework,
		DependsOn:   []ID{TypeScript},
		Priority:    20,
	},
	Definition{
		ID:          ReactVite,
		Name:        "React + Vite",
		Description: "Client-side React app bundled with Vite",
		Category:    CategoryFramework,
		DependsOn:   []ID{TypeScript},
		Priority:    21,
	},
	Definition{
		ID:          NestJS,
		Name:        "NestJS",
		Description: "Node.js API framework",
		Category:    CategoryFramework,
		DependsOn:   []ID{TypeScript},
		Priority:    22,
	},
	Definition{
		ID:           Tailwind,
		Name:         "Tailwind CSS",
		Description:  "Utility-first CSS for web apps",
		Category:     CategoryStyling,
		OptionalDeps: []ID{NextJS, ReactVite},
		Priority:     30,
	},
	Definition{
		ID:          Postgres,
		Name:        "PostgreSQL",
		Description: "Database connection settings",
		Category:    CategoryDatabase,
		AutoEnable:  true,
		Priority:    40,
	},
	Definition{
		ID:          Drizzle,
		Name:        "Drizzle ORM",
		Description: "Type-safe SQL ORM",
		Category:    CategoryDatabase,
		DependsOn:   []ID{TypeScript, Postgres},
		Conflicts:   []ID{Prisma},
		Priority:    41,
	},
	Definition{
		ID:          Prisma,
		Name:        "Prisma",
		Description: "Schema-first ORM",
		Category:    CategoryDatabase,
		DependsOn:   []ID{TypeScript, Postgres},
		Conflicts:   []ID{Drizzle},
		Priority:    42,
	},
	Definition{
		ID:           AuthJS,
		Name:         "Auth.js",
		Description:  "Session based authentication for Next.js",
		Category:     CategoryAuth,
		DependsOn:    []ID{NextJS},
		OptionalDeps: []ID{Drizzle, Prisma},
		Conflicts:    []ID{Clerk},
		Priority:     50,
	},
	Definition{
		ID:          Clerk,
		Name:        "Clerk",
		Description: "Hosted authentication for Next.js",
		Category:    CategoryAuth,
		DependsOn:   []ID{NextJS},
		Conflicts:   []ID{AuthJS},
		Priority:    51,
	},
	Definition{
		ID:          Vitest,
		Name:        "Vitest",
		Description: "Vite-native unit testing",
		Category:    CategoryTesting,
		DependsOn:   []ID{TypeScript},
		Conflicts:   []ID{Jest},
		Priority:    60,
	},
	Definition{
		ID:          Jest,
		Name:        "Jest",
		Description: "Unit testing with ts-jest",
		Category:    CategoryTesting,
		DependsOn:   []ID{TypeScript},
		Conflicts:   []ID{Vitest},
		Priority:    61,
	},
	Definition{
		ID:          ESLint,
		Name:        "ESLint",
		Description: "Flat-config linting",
		Category:    CategoryLinting,
		DependsOn:   []ID{TypeScript},
		Conflicts:   []ID{Biome},
		Priority:    70,
	},
	Definition{
		ID:          Prettier,
		Name:        "Prettier",
		Description: "Opinionated code formatting",
		Category:    CategoryLinting,
		Conflicts:   []ID{Biome},
		AutoEnable:  true,
		Priority:    71,
	},
	Definition{
		ID:          Biome,
		Name:        "Biome",
		Description: "Combined linter and formatter",
		Category:    CategoryLinting,
		Conflicts:   []ID{ESLint, Prettier},
		Priority:    72,
	},
	Definition{
		ID:           Husky,
		Name:         "Husky",
		Description:  "Git hooks with lint-staged",
		Category:     CategoryTooling,
		OptionalDeps: []ID{ESLint, Prettier, Biome},
		Priority:     80,
	},
	Definition{
		ID:          Docker,
		Name:        "Docker",
		Description: "Production Dockerfiles per app",
		Category:    CategoryInfra,
		AutoEnable:  true,
		Priority:    90,
	},
	Definition{
		ID:           DockerCompose,
		Name:         "Docker Compose",
		Description:  "Local service stack",
		Category:     CategoryInfra,
		DependsOn:    []ID{Docker},
		OptionalDeps: []ID{Postgres},
		Priority:     91,
	},
	Definition{
		ID:          GitHubActions,
		Name:        "GitHub Actions",
		Description: "CI workflow for install, lint, test and build",
		Category:    CategoryCI,
		Priority:    100,
	},
)

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}
