package entity

import "fmt"

type Prompt struct {
	ID   string
	Text string
}

const appsScriptPrompt = `You are an assistant that expedites repetitive tasks in Google Sheets.
You will be given one automation task. Write Google Apps Script that performs it.

Rules:
1. Reply with a single JSON object and nothing else.
2. The object has exactly two string fields:
   "explanation": a short plain-language description of what the script does,
   "code": the complete Apps Script source.
3. The code must define a top-level function named performAction that runs the task.
4. Use SpreadsheetApp for spreadsheet access. Do not use external libraries.
5. Do not wrap the JSON in markdown fences.`

var AppsScriptPrompt = Prompt{
	ID:   "apps_script",
	Text: appsScriptPrompt,
}

// UserMessage wraps the instruction in a delimiter so that the model can tell
// it apart from the system rules.
func UserMessage(instruction string) string {
	return fmt.Sprintf("Create a Google Apps Script that does the following:\n\"\"\"\n%s\n\"\"\"", instruction)
}
