// Package skills sorts free-text skill names into the four canonical skill
// buckets using fixed lookup tables.
package skills

import (
	"regexp"
	"strings"

	"github.com/kairoscv/resume-extractor/internal/dedup"
	"github.com/kairoscv/resume-extractor/internal/types"
)

// Category is one of the skill buckets of a resume record.
type Category string

const (
	CategoryLanguage  Category = "languages"
	CategoryFramework Category = "frameworks"
	CategoryTool      Category = "tools"
	CategoryDatabase  Category = "databases"
	CategoryOther     Category = "other"
)

var languageTable = setOf(
	"javascript", "typescript", "python", "java", "go", "rust", "c", "c++", "c#",
	"ruby", "php", "swift", "kotlin", "scala", "r", "matlab", "perl", "haskell",
	"elixir", "erlang", "clojure", "dart", "lua", "objective-c", "julia", "groovy",
	"bash", "shell", "powershell", "sql", "html", "css", "sass", "solidity",
	"fortran", "cobol", "assembly", "f#", "ocaml", "vb.net", "visual basic",
)

var frameworkTable = setOf(
	"react", "angular", "vue", "svelte", "next.js", "nuxt", "node.js", "express",
	"django", "flask", "fastapi", "spring", "spring boot", "rails", "ruby on rails",
	"laravel", ".net", "asp.net", "asp.net core", "gin", "echo", "fiber", "nestjs",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy", "jquery",
	"bootstrap", "tailwind", "tailwind css", "redux", "graphql", "flutter",
	"react native", "electron", "hibernate", "jest", "junit", "pytest", "mocha",
	"cypress", "selenium", "spark", "apache spark", "hadoop", "kafka streams",
	"symfony", "ember", "backbone", "qt", "unity", "xamarin", "phoenix",
)

var toolTable = setOf(
	"git", "github", "gitlab", "bitbucket", "docker", "kubernetes", "terraform",
	"ansible", "puppet", "chef", "jenkins", "circleci", "travis ci", "github actions",
	"amazon web services", "google cloud platform", "azure", "heroku", "vercel",
	"netlify", "linux", "unix", "nginx", "apache", "webpack", "vite", "babel",
	"npm", "yarn", "maven", "gradle", "jira", "confluence", "figma", "sketch",
	"postman", "vs code", "intellij", "vim", "grafana", "prometheus", "datadog",
	"splunk", "kafka", "rabbitmq", "airflow", "tableau", "power bi", "excel",
	"helm", "istio", "consul", "vault", "jupyter", "slack", "trello", "notion",
	"linux administration", "ci/cd", "rest", "grpc",
)

var databaseTable = setOf(
	"postgresql", "mysql", "mariadb", "sqlite", "oracle", "sql server",
	"microsoft sql server", "mssql", "mongodb", "redis", "cassandra", "dynamodb",
	"elasticsearch", "opensearch", "couchdb", "couchbase", "neo4j", "firebase",
	"firestore", "supabase", "snowflake", "bigquery", "redshift", "clickhouse",
	"cockroachdb", "influxdb", "timescaledb", "memcached", "hbase", "db2",
)

// versionSuffix matches a trailing version such as " 18", " 3.9" or " v2".
var versionSuffix = regexp.MustCompile(`\s+v?\d+(\.\d+)*\+?$`)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Categorize returns the bucket a skill belongs to, or CategoryOther when
// no table lists it. Aliases and trailing versions are ignored for lookup.
func Categorize(skill string) Category {
	key := dedup.SkillKey(skill)
	if key == "" {
		return CategoryOther
	}
	if c, ok := lookup(key); ok {
		return c
	}
	if base := versionSuffix.ReplaceAllString(key, ""); base != key {
		if c, ok := lookup(dedup.SkillKey(base)); ok {
			return c
		}
	}
	return CategoryOther
}

func lookup(key string) (Category, bool) {
	switch {
	case languageTable[key]:
		return CategoryLanguage, true
	case databaseTable[key]:
		return CategoryDatabase, true
	case frameworkTable[key]:
		return CategoryFramework, true
	case toolTable[key]:
		return CategoryTool, true
	}
	return "", false
}

// Bucket sorts skills into a Skills value by table lookup. Input order is
// kept within each bucket and blank names are dropped.
func Bucket(names []string) types.Skills {
	out := types.Skills{
		Languages:  []string{},
		Frameworks: []string{},
		Tools:      []string{},
		Databases:  []string{},
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		Add(&out, Categorize(name), name)
	}
	return out
}

// Add appends a skill to the bucket named by category.
func Add(s *types.Skills, category Category, name string) {
	switch category {
	case CategoryLanguage:
		s.Languages = append(s.Languages, name)
	case CategoryFramework:
		s.Frameworks = append(s.Frameworks, name)
	case CategoryTool:
		s.Tools = append(s.Tools, name)
	case CategoryDatabase:
		s.Databases = append(s.Databases, name)
	default:
		s.Other = append(s.Other, name)
	}
}

// ParseCategory maps a heading or label such as "Programming Languages" or
// "Databases:" to a category. ok is false for labels that name no bucket.
func ParseCategory(label string) (Category, bool) {
	l := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), ":")))
	switch {
	case l == "":
		return "", false
	case strings.Contains(l, "language"):
		return CategoryLanguage, true
	case strings.Contains(l, "framework"), strings.Contains(l, "librar"):
		return CategoryFramework, true
	case strings.Contains(l, "database"), strings.Contains(l, "data store"), strings.Contains(l, "storage"):
		return CategoryDatabase, true
	case strings.Contains(l, "tool"), strings.Contains(l, "platform"), strings.Contains(l, "cloud"),
		strings.Contains(l, "devops"), strings.Contains(l, "infrastructure"):
		return CategoryTool, true
	case strings.Contains(l, "other"), strings.Contains(l, "soft"):
		return CategoryOther, true
	}
	return "", false
}
