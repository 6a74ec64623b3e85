package humanize

// Rule rewrites one stock phrase. Pattern is a case-insensitive regular
// expression matched on whole words; one of Replacements is chosen for each
// match. Replacements are written in lower case and take on the case of the
// matched text.
type Rule struct {
	ID           string
	Pattern      string
	Replacements []string
}

// Rules is the default ordered rule list. Multi-word phrases come before the
// single words they contain so that the phrase claims the span first. No
// replacement may itself contain a phrase the scorer flags.
var Rules = []Rule{
	// Phrases.
	{"delve-into", `delve (?:deep(?:ly)? )?into`, []string{"dig into", "look into"}},
	{"delves-into", `delves (?:deep(?:ly)? )?into`, []string{"digs into", "looks into"}},
	{"delved-into", `delved (?:deep(?:ly)? )?into`, []string{"dug into", "looked into"}},
	{"delving-into", `delving (?:deep(?:ly)? )?into`, []string{"digging into", "looking into"}},
	{"passionate-about", `passionate about`, []string{"keen on", "excited about"}},
	{"embark-on", `embark (?:on|upon)`, []string{"start"}},
	{"embarks-on", `embarks (?:on|upon)`, []string{"starts"}},
	{"embarked-on", `embarked (?:on|upon)`, []string{"started"}},
	{"embarking-on", `embarking (?:on|upon)`, []string{"starting"}},
	{"rich-tapestry", `(?:a )?rich tapestry of`, []string{"a mix of"}},
	{"paradigm-shift", `paradigm shifts?`, []string{"big change"}},
	{"ever-evolving", `ever[- ](?:evolving|changing)`, []string{"changing"}},
	{"fast-paced-env", `fast[- ]paced (?:environment|world|setting|workplace)`, []string{"busy workplace", "quick-moving team"}},
	{"wear-many-hats", `wear many hats`, []string{"take on varied work", "cover a range of tasks"}},
	{"wearing-many-hats", `wearing many hats`, []string{"taking on varied work"}},
	{"hit-the-ground", `hit the ground running`, []string{"get up to speed quickly", "settle in quickly"}},
	{"think-outside-box", `think outside (?:of )?the box`, []string{"think creatively", "try new ideas"}},
	{"thinking-outside-box", `thinking outside (?:of )?the box`, []string{"thinking creatively"}},
	{"team-players", `team players`, []string{"good collaborators"}},
	{"team-player", `team player`, []string{"good collaborator"}},
	{"dynamic-team", `dynamic team`, []string{"lively team", "friendly team"}},
	{"work-hard-play-hard", `work hard,? play hard`, []string{"work well and rest well"}},
	{"game-changers", `game[- ]changers`, []string{"big steps"}},
	{"game-changer", `game[- ]changer`, []string{"big step"}},
	{"move-the-needle", `move the needle`, []string{"make progress", "make a difference"}},
	{"worth-noting", `it(?:['’]s| is) worth noting`, []string{"note", "notably"}},
	{"that-being-said", `that being said`, []string{"still", "even so"}},
	{"needless-to-say", `needless to say`, []string{"clearly", "of course"}},
	{"in-conclusion", `in conclusion`, []string{"overall", "in short"}},
	{"in-todays-world", `in today['’]s (?:[a-z-]+ )?(?:world|landscape|market)`, []string{"today", "these days"}},

	// Buzzwords, one rule per inflection.
	{"leverage", `leverage`, []string{"use", "draw on"}},
	{"leverages", `leverages`, []string{"uses", "draws on"}},
	{"leveraged", `leveraged`, []string{"used", "drew on"}},
	{"leveraging", `leveraging`, []string{"using", "drawing on"}},
	{"utilize", `utili[sz]e`, []string{"use"}},
	{"utilizes", `utili[sz]es`, []string{"uses"}},
	{"utilized", `utili[sz]ed`, []string{"used"}},
	{"utilizing", `utili[sz]ing`, []string{"using"}},
	{"utilization", `utili[sz]ation`, []string{"use"}},
	{"streamline", `streamline`, []string{"simplify"}},
	{"streamlines", `streamlines`, []string{"simplifies"}},
	{"streamlined", `streamlined`, []string{"simplified"}},
	{"streamlining", `streamlining`, []string{"simplifying"}},
	{"delve", `delve`, []string{"dig in"}},
	{"delves", `delves`, []string{"digs in"}},
	{"delved", `delved`, []string{"dug in"}},
	{"delving", `delving`, []string{"digging in"}},
	{"passionately", `passionately`, []string{"eagerly"}},
	{"passionate", `passionate`, []string{"keen", "eager"}},
	{"navigate", `navigate`, []string{"handle", "work through"}},
	{"navigates", `navigates`, []string{"handles"}},
	{"navigated", `navigated`, []string{"handled"}},
	{"navigating", `navigating`, []string{"handling"}},
	{"robust", `robust`, []string{"solid", "reliable"}},
	{"seamlessly", `seamlessly`, []string{"smoothly"}},
	{"seamless", `seamless`, []string{"smooth"}},
	{"synergy", `synergy`, []string{"teamwork"}},
	{"synergies", `synergies`, []string{"shared gains"}},
	{"synergistic", `synergistic`, []string{"joint"}},
	{"spearhead", `spearhead`, []string{"lead"}},
	{"spearheads", `spearheads`, []string{"leads"}},
	{"spearheaded", `spearheaded`, []string{"led"}},
	{"spearheading", `spearheading`, []string{"leading"}},
	{"empower", `empower`, []string{"help", "enable"}},
	{"empowers", `empowers`, []string{"helps", "enables"}},
	{"empowered", `empowered`, []string{"trusted"}},
	{"empowering", `empowering`, []string{"helping", "enabling"}},
	{"empowerment", `empowerment`, []string{"autonomy"}},
	{"foster", `foster`, []string{"build", "encourage"}},
	{"fosters", `fosters`, []string{"builds", "encourages"}},
	{"fostered", `fostered`, []string{"built"}},
	{"fostering", `fostering`, []string{"building", "encouraging"}},
	{"holistically", `holistically`, []string{"as a whole"}},
	{"holistic", `holistic`, []string{"complete", "well-rounded"}},
	{"elevate", `elevate`, []string{"improve", "raise"}},
	{"elevates", `elevates`, []string{"improves", "raises"}},
	{"elevated", `elevated`, []string{"improved"}},
	{"elevating", `elevating`, []string{"improving"}},
	{"embark", `embark`, []string{"start"}},
	{"embarks", `embarks`, []string{"starts"}},
	{"embarked", `embarked`, []string{"started"}},
	{"embarking", `embarking`, []string{"starting"}},
	{"unlock", `unlock`, []string{"open up"}},
	{"unlocks", `unlocks`, []string{"opens up"}},
	{"unlocked", `unlocked`, []string{"opened up"}},
	{"unlocking", `unlocking`, []string{"opening up"}},
	{"unparalleled", `unparalleled`, []string{"rare", "unusual"}},
	{"meticulously", `meticulously`, []string{"carefully"}},
	{"meticulous", `meticulous`, []string{"careful", "thorough"}},
	{"tapestry", `tapestry`, []string{"mix"}},
	{"tapestries", `tapestries`, []string{"mixes"}},
	{"innovative", `innovative`, []string{"inventive", "fresh"}},
	{"paradigm", `paradigm`, []string{"model"}},
	{"paradigms", `paradigms`, []string{"models"}},

	// Filler words.
	{"fast-paced", `fast[- ]paced`, []string{"busy", "quick-moving"}},
	{"rockstars", `rock ?stars`, []string{"standouts"}},
	{"rockstar", `rock ?star`, []string{"standout"}},
	{"ninjas", `ninjas`, []string{"experts"}},
	{"ninja", `ninja`, []string{"expert"}},
	{"gurus", `gurus`, []string{"experts"}},
	{"guru", `guru`, []string{"expert"}},
	{"unicorns", `unicorns`, []string{"rare finds"}},
	{"unicorn", `unicorn`, []string{"rare find"}},
	{"self-starters", `self[- ]starters`, []string{"independent workers"}},
	{"self-starter", `self[- ]starter`, []string{"independent worker"}},
	{"go-getters", `go[- ]getters`, []string{"driven people"}},
	{"go-getter", `go[- ]getter`, []string{"driven person"}},
	{"cutting-edge", `cutting[- ]edge`, []string{"modern", "current"}},
	{"world-class", `world[- ]class`, []string{"excellent", "strong"}},
	{"best-in-class", `best[- ]in[- ]class`, []string{"top-tier"}},
	{"state-of-the-art", `state[- ]of[- ]the[- ]art`, []string{"modern"}},
	{"results-driven", `results[- ]driven`, []string{"focused"}},
	{"detail-oriented", `detail[- ]oriented`, []string{"careful"}},

	// Transitions.
	{"moreover", `moreover`, []string{"also", "plus"}},
	{"furthermore", `furthermore`, []string{"also", "beyond that"}},
	{"additionally", `additionally`, []string{"also", "plus"}},
}
