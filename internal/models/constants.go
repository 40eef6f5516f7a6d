package models

// QuestionsPerSession is the number of accepted answers that completes a run
const QuestionsPerSession = 5

// contains all valid difficulties (canonical casing)
var ValidDifficulties = map[Difficulty]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

// contains all valid coaching personas (in lowercase)
var ValidPersonas = map[Persona]bool{
	PersonaBalanced:  true,
	PersonaDSA:       true,
	PersonaArchitect: true,
}

var ValidAspectRatios = map[AspectRatio]bool{
	AspectSquare:    true,
	AspectPortrait:  true,
	AspectLandscape: true,
	AspectTall:      true,
	AspectWide:      true,
}

var ValidImageSizes = map[ImageSize]bool{
	Size1K: true,
	Size2K: true,
	Size4K: true,
}

func ValidDifficultiesList() []string {
	return []string{string(DifficultyBeginner), string(DifficultyIntermediate), string(DifficultyAdvanced)}
}

func ValidPersonasList() []string {
	return []string{string(PersonaBalanced), string(PersonaDSA), string(PersonaArchitect)}
}
