package conf

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ClockLayout is the wire format of slot start and end times.
const ClockLayout = "15:04:05"

type Slot struct {
	Start string `yaml:"start" json:"startTime"`
	End   string `yaml:"end" json:"endTime"`
}

type Booking struct {
	TimeZone *time.Location
	Horizon  int
	Slots    []Slot
	Capacity int
	Location string
	Domain   string
	Reminder string
}

func DefaultBooking() Booking {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}

	return Booking{
		TimeZone: loc,
		Horizon:  2,
		Slots: []Slot{
			{Start: "11:00:00", End: "13:00:00"},
			{Start: "14:00:00", End: "16:00:00"},
			{Start: "17:00:00", End: "19:00:00"},
		},
		Capacity: 1,
		Location: "Online / Office",
		Domain:   "localhost",
	}
}

func (b *Booking) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TimeZone string `yaml:"timeZone"`
		Horizon  int    `yaml:"horizon"`
		Slots    []Slot `yaml:"slots"`
		Capacity int    `yaml:"capacity"`
		Location string `yaml:"location"`
		Domain   string `yaml:"domain"`
		Reminder string `yaml:"reminder"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	*b = DefaultBooking()

	if raw.TimeZone != "" {
		loc, err := time.LoadLocation(raw.TimeZone)
		if err != nil {
			return err
		}

		b.TimeZone = loc
	}

	if raw.Horizon < 0 {
		return errors.New("booking horizon must not be negative")
	}

	if raw.Horizon > 0 {
		b.Horizon = raw.Horizon
	}

	if len(raw.Slots) > 0 {
		if err := ValidateSlots(raw.Slots); err != nil {
			return err
		}

		b.Slots = raw.Slots
	}

	if raw.Capacity < 0 {
		return errors.New("booking capacity must not be negative")
	}

	if raw.Capacity > 0 {
		b.Capacity = raw.Capacity
	}

	if raw.Location != "" {
		b.Location = raw.Location
	}

	if raw.Domain != "" {
		b.Domain = raw.Domain
	}

	b.Reminder = raw.Reminder

	return nil
}

func ValidateSlots(slots []Slot) error {
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		start, err := time.Parse(ClockLayout, s.Start)
		if err != nil {
			return fmt.Errorf("invalid slot start %q: %w", s.Start, err)
		}

		end, err := time.Parse(ClockLayout, s.End)
		if err != nil {
			return fmt.Errorf("invalid slot end %q: %w", s.End, err)
		}

		if !end.After(start) {
			return fmt.Errorf("slot %s must end after it starts", s.Start)
		}

		if _, ok := seen[s.Start]; ok {
			return fmt.Errorf("duplicate slot start %s", s.Start)
		}

		seen[s.Start] = struct{}{}
	}

	return nil
}

type Question struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
	Hint string `yaml:"hint" json:"hint,omitempty"`
}

type Step struct {
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

type Questionnaire struct {
	Steps []Step `yaml:"steps"`
}

func DefaultQuestionnaire() Questionnaire {
	return Questionnaire{
		Steps: []Step{
			{
				Title: "Your business",
				Questions: []Question{
					{ID: "industry", Text: "Which industry is your business in?"},
					{ID: "audience", Text: "Who is your target audience?"},
				},
			},
			{
				Title: "Your marketing",
				Questions: []Question{
					{ID: "channels", Text: "Which marketing channels do you use today?"},
					{ID: "budget", Text: "What is your monthly marketing budget?"},
				},
			},
			{
				Title: "Your goals",
				Questions: []Question{
					{ID: "goal", Text: "What is your primary goal for the next quarter?", Hint: "e.g. leads, brand awareness, ROI"},
				},
			},
		},
	}
}

func (q *Questionnaire) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Steps []Step `yaml:"steps"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	if len(raw.Steps) == 0 {
		*q = DefaultQuestionnaire()
		return nil
	}

	ids := make(map[string]struct{})
	for _, step := range raw.Steps {
		if len(step.Questions) == 0 {
			return fmt.Errorf("step %q has no questions", step.Title)
		}

		for _, question := range step.Questions {
			if question.ID == "" || question.Text == "" {
				return fmt.Errorf("step %q has a question without id or text", step.Title)
			}

			if _, ok := ids[question.ID]; ok {
				return fmt.Errorf("duplicate question id %s", question.ID)
			}

			ids[question.ID] = struct{}{}
		}
	}

	q.Steps = raw.Steps
	return nil
}
