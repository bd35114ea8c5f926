package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage     ChromeClass = "formengine-page"
	ClassForm     ChromeClass = "formengine-form"
	ClassHeader   ChromeClass = "formengine-header"
	ClassSection  ChromeClass = "formengine-section"
	ClassField    ChromeClass = "formengine-field"
	ClassHelp     ChromeClass = "formengine-help"
	ClassActions  ChromeClass = "formengine-actions"
	ClassError    ChromeClass = "formengine-error"
	ClassResult   ChromeClass = "formengine-result"
	ClassDropdown ChromeClass = "formengine-dropdown"
)

func chromeClasses() map[string]string {
	return map[string]string{
		"page":     string(ClassPage),
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"section":  string(ClassSection),
		"field":    string(ClassField),
		"help":     string(ClassHelp),
		"actions":  string(ClassActions),
		"error":    string(ClassError),
		"result":   string(ClassResult),
		"dropdown": string(ClassDropdown),
	}
}
