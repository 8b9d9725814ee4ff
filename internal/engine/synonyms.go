package engine

// synonymTable seeds new triggers with common French variants of their word.
// Lookup is bidirectional: a trigger created for "boulot" picks up "travail"
// and its siblings too.
var synonymTable = map[string][]string{
	"travail":  {"boulot", "job", "bureau", "metier", "profession", "collegue"},
	"famille":  {"parents", "mere", "pere", "frere", "soeur", "enfants"},
	"sport":    {"fitness", "musculation", "course", "entrainement", "gym"},
	"musique":  {"chanson", "concert", "album", "artiste", "playlist"},
	"voyage":   {"vacances", "destination", "avion", "hotel", "tourisme"},
	"cuisine":  {"recette", "repas", "restaurant", "plat", "manger"},
	"sante":    {"medecin", "maladie", "traitement", "hopital", "douleur"},
	"etudes":   {"ecole", "universite", "cours", "examen", "diplome"},
	"argent":   {"salaire", "budget", "economies", "finances", "banque"},
	"amis":     {"ami", "amie", "copain", "copine", "pote"},
	"maison":   {"appartement", "logement", "demenagement", "loyer"},
	"animaux":  {"chien", "chat", "animal", "compagnie"},
	"lecture":  {"livre", "roman", "auteur", "bibliotheque"},
	"cinema":   {"film", "serie", "acteur", "realisateur"},
	"relation": {"couple", "copine", "copain", "mariage", "rencontre"},
}

// ExpandSynonyms returns the static synonyms for a word: its table entry if
// it is a head word, plus every head word (and siblings) of any entry that
// lists it. The input itself is never included.
func ExpandSynonyms(word string) []string {
	w := normalizeWord(word)
	var out []string

	add := func(s string) {
		if s != w && !containsFold(out, s) {
			out = append(out, s)
		}
	}

	for _, s := range synonymTable[w] {
		add(s)
	}
	for head, syns := range synonymTable {
		if head == w {
			continue
		}
		for _, s := range syns {
			if s == w {
				add(head)
				for _, sibling := range syns {
					add(sibling)
				}
				break
			}
		}
	}
	return out
}
