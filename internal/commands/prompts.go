package commands

import "strings"

// Prompt wraps text in the template for id. Ids without a template
// (Null, FollowUp) pass the text through unchanged.
func Prompt(id ID, text string) string {
	switch id {
	case Summarize:
		return "Please summarize the following text and format your response in markdown:\n\n" +
			text + "\n\n" +
			"Use markdown formatting including:\n" +
			"- Headers for main points\n" +
			"- Bullet points for key details\n" +
			"- Bold/italic for emphasis where appropriate"
	case Critical:
		return "Please provide a critical analysis of the following text using markdown formatting:\n\n" +
			text + "\n\n" +
			"Include:\n" +
			"- Main arguments\n" +
			"- Supporting evidence\n" +
			"- Potential counterarguments\n" +
			"- Your evaluation"
	case Respond:
		return "Please generate a detailed response to the following text using markdown formatting:\n\n" +
			text
	case RewriteCode:
		return "Please rewrite and improve the following code. Format your response in markdown:\n\n" +
			fenced(text) + "\n\n" +
			"Include:\n" +
			"- Improved code in a code block\n" +
			"- Explanation of changes\n" +
			"- Best practices applied"
	case UnitTest:
		return "Please generate unit tests for the following code using markdown formatting:\n\n" +
			fenced(text) + "\n\n" +
			"Include:\n" +
			"- Complete unit test code\n" +
			"- Test cases for different scenarios\n" +
			"- Explanation of test strategy"
	case ListTypos:
		return "Please identify and list any typos or grammatical errors in the following text:\n\n" +
			text + "\n\n" +
			"Format your response in markdown with:\n" +
			"- List of errors found\n" +
			"- Suggested corrections\n" +
			"- Corrected version if needed"
	case CodeReview:
		return "Please perform a comprehensive code review of the following code:\n\n" +
			fenced(text) + "\n\n" +
			"Include in your markdown response:\n" +
			"- Code quality assessment\n" +
			"- Security considerations\n" +
			"- Performance improvements\n" +
			"- Best practices recommendations\n" +
			"- Potential bugs or issues"
	case SecReview:
		return "Please perform a security review of the following code or text:\n\n" +
			fenced(text) + "\n\n" +
			"Focus on:\n" +
			"- Security vulnerabilities\n" +
			"- Potential attack vectors\n" +
			"- Security best practices\n" +
			"- Recommendations for improvement\n" +
			"Format your response in markdown."
	case Reword:
		return "Please reword and improve the following text while maintaining its meaning:\n\n" +
			text + "\n\n" +
			"Make it:\n" +
			"- More clear and concise\n" +
			"- Better structured\n" +
			"- More engaging\n" +
			"Format your response in markdown."
	default:
		return text
	}
}

// FollowUpPrompt prepends a conversation summary to a follow-up question.
func FollowUpPrompt(summary, question string) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n\nCurrent follow-up question: ")
	b.WriteString(question)
	b.WriteString("\n\nPlease answer the follow-up question considering the previous conversation context. ")
	b.WriteString("Reference relevant parts of our previous discussion when helpful.")
	return b.String()
}

func fenced(text string) string {
	return "```\n" + text + "\n```"
}
