package structure

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Technology is one entry of the curated tech-stack table. Aliases are
// matched as whole tokens; acronyms and names that double as ordinary English
// words are matched case-sensitively. Entries may share a Name so that one
// technology can have both case-sensitive and case-insensitive spellings.
type Technology struct {
	Name          string
	Aliases       []string
	CaseSensitive bool
	// Reject, when set, discards a match at text[start:end].
	Reject func(text string, start, end int) bool
}

// Technologies is the curated table scanned by TechStack. Within an entry,
// longer aliases come first so that "React.js" wins over "React".
var Technologies = []Technology{
	{Name: "Go", Aliases: []string{"Go"}, CaseSensitive: true, Reject: imperativeVerb},
	{Name: "Go", Aliases: []string{"golang"}},
	{Name: "Rust", Aliases: []string{"Rust"}, CaseSensitive: true},
	{Name: "Python", Aliases: []string{"python"}},
	{Name: "Java", Aliases: []string{"java"}},
	{Name: "JavaScript", Aliases: []string{"javascript"}},
	{Name: "JavaScript", Aliases: []string{"JS"}, CaseSensitive: true},
	{Name: "TypeScript", Aliases: []string{"typescript"}},
	{Name: "TypeScript", Aliases: []string{"TS"}, CaseSensitive: true},
	{Name: "Node.js", Aliases: []string{"node.js", "nodejs"}},
	{Name: "React", Aliases: []string{"React Native", "React.js", "ReactJS", "React"}, CaseSensitive: true},
	{Name: "Vue", Aliases: []string{"Vue.js", "VueJS", "Vue"}, CaseSensitive: true},
	{Name: "Angular", Aliases: []string{"Angular"}, CaseSensitive: true},
	{Name: "Svelte", Aliases: []string{"sveltekit", "svelte"}},
	{Name: "Next.js", Aliases: []string{"next.js", "nextjs"}},
	{Name: "Ruby on Rails", Aliases: []string{"ruby on rails"}},
	{Name: "Ruby on Rails", Aliases: []string{"Rails"}, CaseSensitive: true},
	{Name: "Ruby", Aliases: []string{"Ruby"}, CaseSensitive: true},
	{Name: "PHP", Aliases: []string{"PHP"}, CaseSensitive: true},
	{Name: "Laravel", Aliases: []string{"laravel"}},
	{Name: "Django", Aliases: []string{"django"}},
	{Name: "Flask", Aliases: []string{"Flask"}, CaseSensitive: true},
	{Name: "FastAPI", Aliases: []string{"fastapi"}},
	{Name: "Spring Boot", Aliases: []string{"spring boot"}},
	{Name: "Kotlin", Aliases: []string{"kotlin"}},
	{Name: "Swift", Aliases: []string{"Swift"}, CaseSensitive: true},
	{Name: "Scala", Aliases: []string{"scala"}},
	{Name: "Elixir", Aliases: []string{"elixir"}},
	{Name: "Haskell", Aliases: []string{"haskell"}},
	{Name: "C++", Aliases: []string{"C++"}, CaseSensitive: true},
	{Name: "C#", Aliases: []string{"C#"}, CaseSensitive: true},
	{Name: ".NET", Aliases: []string{".net"}},
	{Name: "SQL", Aliases: []string{"SQL"}, CaseSensitive: true},
	{Name: "PostgreSQL", Aliases: []string{"postgresql", "postgres"}},
	{Name: "MySQL", Aliases: []string{"mysql"}},
	{Name: "SQLite", Aliases: []string{"sqlite"}},
	{Name: "MongoDB", Aliases: []string{"mongodb", "mongo"}},
	{Name: "Redis", Aliases: []string{"redis"}},
	{Name: "Elasticsearch", Aliases: []string{"elasticsearch"}},
	{Name: "Kafka", Aliases: []string{"kafka"}},
	{Name: "RabbitMQ", Aliases: []string{"rabbitmq"}},
	{Name: "GraphQL", Aliases: []string{"graphql"}},
	{Name: "gRPC", Aliases: []string{"grpc"}},
	{Name: "Docker", Aliases: []string{"docker"}},
	{Name: "Kubernetes", Aliases: []string{"kubernetes"}},
	{Name: "Kubernetes", Aliases: []string{"K8s", "k8s"}, CaseSensitive: true},
	{Name: "Terraform", Aliases: []string{"terraform"}},
	{Name: "Ansible", Aliases: []string{"ansible"}},
	{Name: "AWS", Aliases: []string{"AWS"}, CaseSensitive: true},
	{Name: "GCP", Aliases: []string{"GCP"}, CaseSensitive: true},
	{Name: "GCP", Aliases: []string{"google cloud"}},
	{Name: "Azure", Aliases: []string{"Azure"}, CaseSensitive: true},
	{Name: "Linux", Aliases: []string{"linux"}},
	{Name: "Git", Aliases: []string{"Git"}, CaseSensitive: true},
	{Name: "CI/CD", Aliases: []string{"CI/CD"}, CaseSensitive: true},
	{Name: "Jenkins", Aliases: []string{"jenkins"}},
	{Name: "Spark", Aliases: []string{"Apache Spark", "Spark"}, CaseSensitive: true},
	{Name: "Hadoop", Aliases: []string{"hadoop"}},
	{Name: "Airflow", Aliases: []string{"airflow"}},
	{Name: "dbt", Aliases: []string{"dbt"}, CaseSensitive: true},
	{Name: "Snowflake", Aliases: []string{"Snowflake"}, CaseSensitive: true},
	{Name: "TensorFlow", Aliases: []string{"tensorflow"}},
	{Name: "PyTorch", Aliases: []string{"pytorch"}},
	{Name: "Pandas", Aliases: []string{"pandas"}},
	{Name: "HTML", Aliases: []string{"HTML5", "HTML"}, CaseSensitive: true},
	{Name: "CSS", Aliases: []string{"CSS3", "CSS"}, CaseSensitive: true},
	{Name: "Tailwind CSS", Aliases: []string{"tailwindcss", "tailwind"}},
	{Name: "Figma", Aliases: []string{"figma"}},
	{Name: "Solidity", Aliases: []string{"solidity"}},
	{Name: "Ethereum", Aliases: []string{"ethereum"}},
	{Name: "Solana", Aliases: []string{"solana"}},
	{Name: "Web3", Aliases: []string{"web3"}},
}

var techRes = compileTechnologies(Technologies)

func compileTechnologies(table []Technology) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(table))
	for _, t := range table {
		quoted := make([]string, 0, len(t.Aliases))
		for _, a := range t.Aliases {
			quoted = append(quoted, regexp.QuoteMeta(a))
		}
		expr := `(?:` + strings.Join(quoted, "|") + `)`
		if !t.CaseSensitive {
			expr = `(?i)` + expr
		}
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// TechStack returns the technologies mentioned in text, de-duplicated by name
// and ordered by first occurrence. Mentions starting at the same offset keep
// table order.
func TechStack(text string) []string {
	type hit struct {
		name  string
		pos   int
		order int
	}
	first := make(map[string]hit)
	for i, re := range techRes {
		pos := firstToken(re, text, Technologies[i].Reject)
		if pos < 0 {
			continue
		}
		name := Technologies[i].Name
		if h, ok := first[name]; ok && h.pos <= pos {
			continue
		}
		first[name] = hit{name: name, pos: pos, order: i}
	}
	if len(first) == 0 {
		return nil
	}
	hits := make([]hit, 0, len(first))
	for _, h := range first {
		hits = append(hits, h)
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].pos != hits[b].pos {
			return hits[a].pos < hits[b].pos
		}
		return hits[a].order < hits[b].order
	})
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

// firstToken returns the offset of the first match of re in text that stands
// as a whole token and is not rejected, or -1.
func firstToken(re *regexp.Regexp, text string, reject func(string, int, int) bool) int {
	for _, m := range re.FindAllStringIndex(text, -1) {
		if m[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:m[0]])
			if isWordRune(r) {
				continue
			}
		}
		if m[1] < len(text) {
			r, _ := utf8.DecodeRuneInString(text[m[1]:])
			if isWordRune(r) || r == '+' || r == '#' {
				continue
			}
		}
		if reject != nil && reject(text, m[0], m[1]) {
			continue
		}
		return m[0]
	}
	return -1
}

// imperativeVerb reports a sentence-initial match followed by a lower case
// word, as in "Go above and beyond".
func imperativeVerb(text string, start, end int) bool {
	prefix := strings.TrimRight(text[:start], " \t")
	if prefix != "" {
		r, _ := utf8.DecodeLastRuneInString(prefix)
		if !strings.ContainsRune(".!?:\n-*•", r) {
			return false
		}
	}
	rest := text[end:]
	if !strings.HasPrefix(rest, " ") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimLeft(rest, " "))
	return unicode.IsLower(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
