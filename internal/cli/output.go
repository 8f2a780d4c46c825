package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case LoginResult:
		fmt.Fprintf(o.w, "Logged in as %s\n", v.UserID)
	case Creature:
		o.printCreature(v)
	case []Creature:
		o.printCreatures(v)
	case Category:
		o.printCategory(v)
	case []Category:
		o.printCategories(v)
	case Question:
		o.printQuestion(v)
	case []Question:
		o.printQuestions(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult is the data of a login response
type LoginResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Creature response type
type Creature struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Translation string    `json:"translation"`
	Description string    `json:"description"`
	PowerLevel  int       `json:"powerLevel"`
	Strengths   string    `json:"strengths"`
	Weaknesses  string    `json:"weaknesses"`
	FunFact     string    `json:"funFact"`
	ImageURL    string    `json:"imageURL"`
	Category    string    `json:"category,omitempty"`
	CreatedBy   string    `json:"_createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Category response type
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Choice is one answer of a question
type Choice struct {
	Text        string   `json:"text"`
	CreatureIDs []string `json:"creatureIds"`
}

// Question response type
type Question struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Options   []Choice  `json:"options"`
	CreatedBy string    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
}

func (o *Output) printCreature(c Creature) {
	fmt.Fprintf(o.w, "Creature: %s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(o.w, "Translation: %s\n", c.Translation)
	fmt.Fprintf(o.w, "Power: %d\n", c.PowerLevel)
	fmt.Fprintf(o.w, "Strengths: %s\n", c.Strengths)
	fmt.Fprintf(o.w, "Weaknesses: %s\n", c.Weaknesses)
	if c.Category != "" {
		fmt.Fprintf(o.w, "Category: %s\n", c.Category)
	}
	fmt.Fprintf(o.w, "Fun fact: %s\n", c.FunFact)
	fmt.Fprintf(o.w, "Image: %s\n", c.ImageURL)
	fmt.Fprintf(o.w, "\n%s\n", c.Description)
}

func (o *Output) printCreatures(cs []Creature) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOWER\tCATEGORY")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, c.Name, c.PowerLevel, c.Category)
	}
	_ = tw.Flush()
}

func (o *Output) printCategory(c Category) {
	fmt.Fprintf(o.w, "Category: %s (%s)\n", c.Name, c.ID)
}

func (o *Output) printCategories(cs []Category) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	_ = tw.Flush()
}

func (o *Output) printQuestion(q Question) {
	fmt.Fprintf(o.w, "Question: %s (%s)\n", q.Text, q.ID)
	for i, opt := range q.Options {
		fmt.Fprintf(o.w, "  %d. %s -> %s\n", i+1, opt.Text, strings.Join(opt.CreatureIDs, ", "))
	}
}

func (o *Output) printQuestions(qs []Question) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEXT\tOPTIONS")
	for _, q := range qs {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", q.ID, q.Text, len(q.Options))
	}
	_ = tw.Flush()
}
