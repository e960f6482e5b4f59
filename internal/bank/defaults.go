package bank

// Defaults returns the built-in question set used when no CSV source is
// available. Keeps the server playable out of the box.
func Defaults() []Record {
	return []Record{
		{Prompt: "What is the capital of France?", Answer: "paris"},
		{Prompt: "What is 7 times 8?", Answer: "56", Synonyms: []string{"fifty-six", "fifty six"}},
		{Prompt: "Which planet is known as the red planet?", Answer: "mars"},
		{Prompt: "Who painted the Mona Lisa?", Answer: "leonardo da vinci", Synonyms: []string{"da vinci", "leonardo"}},
		{Prompt: "What is the largest ocean on Earth?", Answer: "pacific", Synonyms: []string{"pacific ocean"}},
		{Prompt: "In which country would you find the Colosseum?", Answer: "italy", Synonyms: []string{"italie"}},
		{Prompt: "What gas do plants absorb from the atmosphere?", Answer: "carbon dioxide", Synonyms: []string{"co2"}},
		{Prompt: "How many continents are there?", Answer: "7", Synonyms: []string{"seven"}},
	}
}
