package webtab

import "strings"

// promptTemplate is the fixed extraction instruction sent with every chunk.
// {content} and {instruction} are replaced by BuildPrompt.
const promptTemplate = "You are tasked with extracting specific information from the following text content: {content}\n\n" +
	"Please follow these instructions carefully:\n\n" +
	"1. **Extract Information:** Only extract the information that directly matches the provided description: {instruction}\n" +
	"2. **No Extra Content:** Do not include any additional text, comments, or explanations in your response.\n" +
	"3. **Empty Response:** If no information matches the description, return an empty string ('').\n" +
	"4. **Direct Data Only:** Your output should contain only the data that is explicitly requested, with no other text.\n" +
	"5. **Include Every Item:** Include every matching item found in the content.\n" +
	"6. **Table Format:** Format the output as a Markdown table with one header row naming the requested fields, then one row per item.\n"

// BuildPrompt interpolates a chunk and the user's instruction into the
// extraction template.
func BuildPrompt(chunk, instruction string) string {
	r := strings.NewReplacer("{content}", chunk, "{instruction}", instruction)
	return r.Replace(promptTemplate)
}
