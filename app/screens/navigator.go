package screens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"qastore/app/models"
	"qastore/app/services"

	"github.com/mattn/go-isatty"
)

// Kind names a screen of the interactive session.
type Kind int

const (
	Start Kind = iota
	MainMenu
	PostQuestion
	SearchForQuestions
	SearchResults
	QuestionAction
	AnswerQuestion
	ListAnswers
	AnswerAction
	Done
)

var kindNames = map[Kind]string{
	Start:              "Start",
	MainMenu:           "MainMenu",
	PostQuestion:       "PostQuestion",
	SearchForQuestions: "SearchForQuestions",
	SearchResults:      "SearchResults",
	QuestionAction:     "QuestionAction",
	AnswerQuestion:     "AnswerQuestion",
	ListAnswers:        "ListAnswers",
	AnswerAction:       "AnswerAction",
	Done:               "Done",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// QA is the part of the query service the screens call.
type QA interface {
	UserReport(ctx context.Context, userID string) (services.Report, error)
	AddQuestion(ctx context.Context, title, body string, tags []string, userID string) (*models.Post, error)
	AddAnswer(ctx context.Context, questionID, body, userID string) (*models.Post, error)
	Search(ctx context.Context, keywords string) ([]*models.Post, error)
	IncrementViewCount(ctx context.Context, question *models.Post) (*models.Post, error)
	GetAnswers(ctx context.Context, question *models.Post) (bool, []*models.Post, error)
	CheckVoteEligibility(ctx context.Context, post *models.Post, userID string) (bool, error)
	AddVote(ctx context.Context, post *models.Post, userID string) error
}

// Navigator runs the console session. It holds the state that screens pass
// to each other: the user, the current search and the selected posts.
type Navigator struct {
	qa       QA
	prompt   *Prompter
	out      io.Writer
	styles   styles
	pageSize int
	clear    bool

	userID      string
	results     []*models.Post
	page        int
	question    *models.Post
	hasAccepted bool
	answers     []*models.Post
	answer      *models.Post
}

// NewNavigator creates a session reading from in and drawing on out. The
// display is only cleared when out is a terminal.
func NewNavigator(qa QA, in io.Reader, out io.Writer, pageSize int) *Navigator {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Navigator{
		qa:       qa,
		prompt:   NewPrompter(in, out),
		out:      out,
		styles:   newStyles(out),
		pageSize: pageSize,
		clear:    isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run drives the session from Start until the user exits or input ends.
// Store errors end the session and are returned.
func (n *Navigator) Run(ctx context.Context) error {
	screen := Start
	for screen != Done {
		next, err := n.dispatch(ctx, screen)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(n.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", screen, err)
		}
		screen = next
	}
	return nil
}

func (n *Navigator) dispatch(ctx context.Context, screen Kind) (Kind, error) {
	n.clearScreen()
	switch screen {
	case Start:
		return n.start()
	case MainMenu:
		return n.mainMenu(ctx)
	case PostQuestion:
		return n.postQuestion(ctx)
	case SearchForQuestions:
		return n.searchForQuestions(ctx)
	case SearchResults:
		return n.searchResults(ctx)
	case QuestionAction:
		return n.questionAction(ctx)
	case AnswerQuestion:
		return n.answerQuestion(ctx)
	case ListAnswers:
		return n.listAnswers()
	case AnswerAction:
		return n.answerAction(ctx)
	}
	return Done, fmt.Errorf("unknown screen %s", screen)
}

func (n *Navigator) clearScreen() {
	if n.clear {
		fmt.Fprint(n.out, "\033[H\033[2J")
	}
}

func (n *Navigator) title(text string) {
	fmt.Fprintln(n.out, n.styles.Title.Render(text))
	fmt.Fprintln(n.out)
}

func (n *Navigator) options(opts ...[2]string) []string {
	valid := make([]string, 0, len(opts))
	for _, o := range opts {
		fmt.Fprintf(n.out, "\t%s %s\n", n.styles.Option.Render("["+o[0]+"]"), o[1])
		valid = append(valid, o[0])
	}
	return valid
}

// pause waits for any line so a message stays readable before the next clear.
func (n *Navigator) pause(message string) error {
	fmt.Fprintln(n.out, message)
	_, err := n.prompt.Ask(n.styles.Muted.Render("Press enter to continue."))
	return err
}

func (n *Navigator) start() (Kind, error) {
	fmt.Fprintln(n.out, "Would you like to provide a user id?")
	valid := n.options([2]string{"1", "Yes"}, [2]string{"2", "No"})
	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	if selection == "2" {
		n.userID = ""
		return MainMenu, nil
	}

	line, err := n.prompt.Ask("Please enter the user id that you would like to use:")
	for err == nil {
		if id, convErr := strconv.Atoi(strings.TrimSpace(line)); convErr == nil && id >= 0 {
			n.userID = strconv.Itoa(id)
			return MainMenu, nil
		}
		line, err = n.prompt.Ask(n.styles.Warning.Render("Invalid input - user id must be numeric. Please try again:"))
	}
	return Done, err
}

func (n *Navigator) mainMenu(ctx context.Context) (Kind, error) {
	n.title("MAIN MENU")
	if n.userID == "" {
		fmt.Fprintln(n.out, "Welcome anonymous!")
	} else {
		fmt.Fprintf(n.out, "Welcome %s!\n", n.userID)
		report, err := n.qa.UserReport(ctx, n.userID)
		if err != nil {
			return Done, err
		}
		n.renderReport(report)
	}
	fmt.Fprintln(n.out)

	valid := n.options(
		[2]string{"1", "Post a question"},
		[2]string{"2", "Search for questions"},
		[2]string{"end", "Exit"},
	)
	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	switch selection {
	case "1":
		return PostQuestion, nil
	case "2":
		return SearchForQuestions, nil
	}
	return Done, nil
}

func (n *Navigator) renderReport(r services.Report) {
	fmt.Fprintf(n.out, "\tNumber of owned questions: %d\n", r.Questions)
	fmt.Fprintf(n.out, "\tAverage score of owned questions: %s\n", formatAverage(r.AvgQuestionScore))
	fmt.Fprintf(n.out, "\tNumber of owned answers: %d\n", r.Answers)
	fmt.Fprintf(n.out, "\tAverage score of owned answers: %s\n", formatAverage(r.AvgAnswerScore))
	fmt.Fprintf(n.out, "\tNumber of votes registered for you: %d\n", r.Votes)
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (n *Navigator) postQuestion(ctx context.Context) (Kind, error) {
	n.title("POST A QUESTION")
	title, err := n.prompt.AskNonEmpty("Please enter the title of your question:", "The title cannot be empty. Please try again:")
	if err != nil {
		return Done, err
	}
	body, err := n.prompt.AskNonEmpty("Please enter the body of your question:", "The body cannot be empty. Please try again:")
	if err != nil {
		return Done, err
	}
	tagLine, err := n.prompt.Ask("Please enter any tags, separated by spaces or commas (optional):")
	if err != nil {
		return Done, err
	}

	post, err := n.qa.AddQuestion(ctx, title, body, models.ParseTagInput(tagLine), n.userID)
	if errors.Is(err, services.ErrInvalidPost) {
		return n.rejected(err, PostQuestion)
	}
	if err != nil {
		return Done, err
	}
	if err := n.pause(fmt.Sprintf("Your question was posted with id %s.", post.ID)); err != nil {
		return Done, err
	}
	return MainMenu, nil
}

// rejected shows why a post was not accepted and returns to the screen
// that collected it.
func (n *Navigator) rejected(err error, retry Kind) (Kind, error) {
	if err := n.pause(n.styles.Warning.Render(err.Error())); err != nil {
		return Done, err
	}
	return retry, nil
}

func (n *Navigator) searchForQuestions(ctx context.Context) (Kind, error) {
	n.title("SEARCH FOR QUESTIONS")
	keywords, err := n.prompt.AskNonEmpty("Please enter one or more keywords:", "Please enter at least one keyword:")
	if err != nil {
		return Done, err
	}
	results, err := n.qa.Search(ctx, keywords)
	if err != nil {
		return Done, err
	}
	if len(results) == 0 {
		if err := n.pause("No questions matched your search."); err != nil {
			return Done, err
		}
		return MainMenu, nil
	}
	n.results, n.page = results, 0
	return SearchResults, nil
}

func (n *Navigator) searchResults(ctx context.Context) (Kind, error) {
	n.title("SEARCH RESULTS")
	first := n.page * n.pageSize
	last := first + n.pageSize
	if last > len(n.results) {
		last = len(n.results)
	}
	fmt.Fprintf(n.out, "Showing %d-%d of %d questions\n\n", first+1, last, len(n.results))

	var valid []string
	for i := first; i < last; i++ {
		q := n.results[i]
		row := strconv.Itoa(i + 1)
		valid = append(valid, row)
		fmt.Fprintf(n.out, "\t%s %s\n", n.styles.Option.Render("["+row+"]"), n.styles.Label.Render(q.Title))
		fmt.Fprintf(n.out, "\t    Created: %s  Score: %d  Answers: %d\n", q.CreationDate, q.Score, q.Answers())
	}
	fmt.Fprintln(n.out)
	if last < len(n.results) {
		valid = append(valid, n.options([2]string{"m", "More results"})...)
	}
	valid = append(valid, n.options([2]string{"b", "Back to the main menu"})...)

	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	switch selection {
	case "m":
		n.page++
		return SearchResults, nil
	case "b":
		return MainMenu, nil
	}

	row, _ := strconv.Atoi(selection)
	question, err := n.qa.IncrementViewCount(ctx, n.results[row-1])
	if err != nil {
		return Done, err
	}
	n.results[row-1] = question
	n.question = question
	return QuestionAction, nil
}

func (n *Navigator) questionAction(ctx context.Context) (Kind, error) {
	n.title("QUESTION")
	n.renderPost(n.question)
	fmt.Fprintln(n.out)

	valid := n.options(
		[2]string{"1", "Answer this question"},
		[2]string{"2", "List the answers"},
		[2]string{"3", "Vote on this question"},
		[2]string{"b", "Back to the search results"},
	)
	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	switch selection {
	case "1":
		return AnswerQuestion, nil
	case "2":
		n.hasAccepted, n.answers, err = n.qa.GetAnswers(ctx, n.question)
		if err != nil {
			return Done, err
		}
		if len(n.answers) == 0 {
			if err := n.pause("This question has no answers yet."); err != nil {
				return Done, err
			}
			return QuestionAction, nil
		}
		return ListAnswers, nil
	case "3":
		return n.vote(ctx, n.question)
	}
	return SearchResults, nil
}

func (n *Navigator) answerQuestion(ctx context.Context) (Kind, error) {
	n.title("ANSWER: " + n.question.Title)
	body, err := n.prompt.AskNonEmpty("Please enter the body of your answer:", "The body cannot be empty. Please try again:")
	if err != nil {
		return Done, err
	}
	answer, err := n.qa.AddAnswer(ctx, n.question.ID, body, n.userID)
	if errors.Is(err, services.ErrInvalidPost) {
		return n.rejected(err, AnswerQuestion)
	}
	if err != nil {
		return Done, err
	}
	if err := n.pause(fmt.Sprintf("Your answer was posted with id %s.", answer.ID)); err != nil {
		return Done, err
	}
	return MainMenu, nil
}

func (n *Navigator) listAnswers() (Kind, error) {
	n.title("ANSWERS: " + n.question.Title)
	var valid []string
	for i, a := range n.answers {
		row := strconv.Itoa(i + 1)
		valid = append(valid, row)
		marker := " "
		if i == 0 && n.hasAccepted {
			marker = n.styles.Accepted.Render("*")
		}
		fmt.Fprintf(n.out, "\t%s%s %s\n", marker, n.styles.Option.Render("["+row+"]"), truncate(a.Body, 80))
		fmt.Fprintf(n.out, "\t     Created: %s  Score: %d\n", a.CreationDate, a.Score)
	}
	fmt.Fprintln(n.out)
	if n.hasAccepted {
		fmt.Fprintln(n.out, n.styles.Muted.Render("* accepted answer"))
	}
	valid = append(valid, n.options([2]string{"b", "Back to the question"})...)

	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	if selection == "b" {
		return QuestionAction, nil
	}
	row, _ := strconv.Atoi(selection)
	n.answer = n.answers[row-1]
	return AnswerAction, nil
}

func (n *Navigator) answerAction(ctx context.Context) (Kind, error) {
	n.title("ANSWER")
	n.renderPost(n.answer)
	fmt.Fprintln(n.out)

	valid := n.options(
		[2]string{"1", "Vote on this answer"},
		[2]string{"b", "Back to the answers"},
	)
	selection, err := n.prompt.Select(valid)
	if err != nil {
		return Done, err
	}
	if selection == "b" {
		return ListAnswers, nil
	}
	return n.vote(ctx, n.answer)
}

func (n *Navigator) vote(ctx context.Context, post *models.Post) (Kind, error) {
	ok, err := n.qa.CheckVoteEligibility(ctx, post, n.userID)
	if err != nil {
		return Done, err
	}
	message := "You have already voted on this post."
	if ok {
		if err := n.qa.AddVote(ctx, post, n.userID); err != nil {
			return Done, err
		}
		message = fmt.Sprintf("Your vote was recorded. The post now has a score of %d.", post.Score)
	}
	if err := n.pause(message); err != nil {
		return Done, err
	}
	return MainMenu, nil
}
