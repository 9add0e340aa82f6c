package main

import (
	"errors"
	"fmt"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/service"
)

var errNoChoice = errors.New("pick a suggestion or type a name")

func suggestionLabel(e models.RosterEntry) string {
	return fmt.Sprintf("%s (%s %s)", e.Name, e.Position, e.Team)
}

// chooseCanonical prefers a typed name over the selected suggestion.
func chooseCanonical(suggestions []models.RosterEntry, selected int, manual string) (string, error) {
	if m := strings.TrimSpace(manual); m != "" {
		return m, nil
	}
	if selected < 0 || selected >= len(suggestions) {
		return "", errNoChoice
	}
	return suggestions[selected].Name, nil
}

// review walks the unmatched names one dialog at a time.
func (f *form) review(reviews []service.NameReview, i, saved int) {
	if i >= len(reviews) {
		f.logf("Saved %d mapping(s). Rebuild to apply them.", saved)
		return
	}
	r := reviews[i]

	options := make([]string, len(r.Suggestions))
	for j, e := range r.Suggestions {
		options[j] = suggestionLabel(e)
	}
	list := widget.NewRadioGroup(options, nil)
	manual := widget.NewEntry()
	manual.SetPlaceHolder("Or type the roster name")

	header := widget.NewLabel(fmt.Sprintf("%d of %d: %s (%s %s)", i+1, len(reviews), r.Name, r.Position, r.Team))
	header.TextStyle.Bold = true
	body := container.NewVBox(header)
	if len(options) == 0 {
		body.Add(widget.NewLabel("No suggestions found."))
	} else {
		body.Add(container.NewVScroll(list))
	}
	body.Add(manual)

	clearButton := widget.NewButton("Clear existing mapping", func() {
		removed, err := f.svc.RemoveMapping(r.Name, r.Team)
		switch {
		case err != nil:
			dialog.ShowError(err, f.window)
		case removed:
			f.logf("Cleared mapping for %s (%s)", r.Name, r.Team)
		default:
			f.logf("No mapping for %s (%s)", r.Name, r.Team)
		}
	})
	body.Add(clearButton)

	d := dialog.NewCustomConfirm("Review name", "Save", "Skip", body, func(save bool) {
		if !save {
			f.review(reviews, i+1, saved)
			return
		}
		selected := -1
		for j, o := range options {
			if o == list.Selected {
				selected = j
			}
		}
		canonical, err := chooseCanonical(r.Suggestions, selected, manual.Text)
		if err == nil {
			err = f.svc.SetMapping(r.Name, r.Team, canonical)
		}
		if err != nil {
			dialog.ShowError(err, f.window)
			f.review(reviews, i, saved)
			return
		}
		f.logf("Mapped %s (%s) → %s", r.Name, r.Team, canonical)
		f.review(reviews, i+1, saved+1)
	}, f.window)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}
