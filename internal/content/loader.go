package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/vytor/wordjourney/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data
var bundled embed.FS

// WordsFile is the YAML structure of words.yaml.
type WordsFile struct {
	Words []models.Word `yaml:"words"`
}

// FrameworkFile is the YAML structure of one frameworks/*.yaml file.
type FrameworkFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
	Steps       []struct {
		ID          string `yaml:"id"`
		Label       string `yaml:"label"`
		Skill       string `yaml:"skill"`
		Type        string `yaml:"type"`
		MasteryGate bool   `yaml:"mastery_gate"`
	} `yaml:"steps"`
	// Content maps word id to step id to exercise.
	Content map[string]map[string]Exercise `yaml:"content"`
}

// Load builds the catalogue from the bundled data files.
func Load() (*Catalogue, error) {
	root, err := fs.Sub(bundled, "data")
	if err != nil {
		return nil, fmt.Errorf("open bundled content: %w", err)
	}
	return LoadFS(root)
}

// MustLoad is Load for program start-up and tests.
func MustLoad() *Catalogue {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS builds the catalogue from words.yaml and frameworks/*.yaml in fsys.
// Any missing or malformed entry fails the whole load.
func LoadFS(fsys fs.FS) (*Catalogue, error) {
	var wf WordsFile
	if err := readYAML(fsys, "words.yaml", &wf); err != nil {
		return nil, err
	}

	paths, err := fs.Glob(fsys, "frameworks/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list framework files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no framework files found")
	}

	files := make([]FrameworkFile, 0, len(paths))
	for _, p := range paths {
		var ff FrameworkFile
		if err := readYAML(fsys, p, &ff); err != nil {
			return nil, err
		}
		if ff.ID == "" {
			ff.ID = path.Base(p[:len(p)-len(path.Ext(p))])
		}
		files = append(files, ff)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Order < files[j].Order })

	return build(wf.Words, files)
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func build(words []models.Word, files []FrameworkFile) (*Catalogue, error) {
	c := &Catalogue{
		wordIndex: make(map[string]int, len(words)),
		fwIndex:   make(map[string]int, len(files)),
		exercises: make(map[exerciseKey]Exercise),
	}

	var problems problemList
	for _, w := range words {
		if w.ID == "" || w.English == "" {
			problems.addf("word %q: id and english are required", w.ID)
			continue
		}
		if _, dup := c.wordIndex[w.ID]; dup {
			problems.addf("word %q: duplicate id", w.ID)
			continue
		}
		c.wordIndex[w.ID] = len(c.words)
		c.words = append(c.words, w)
	}
	if len(c.words) == 0 {
		problems.addf("catalogue has no words")
	}

	for _, ff := range files {
		fw, ok := frameworkFromFile(ff, &problems)
		if !ok {
			continue
		}
		if _, dup := c.fwIndex[fw.ID]; dup {
			problems.addf("framework %q: duplicate id", fw.ID)
			continue
		}
		c.fwIndex[fw.ID] = len(c.frameworks)
		c.frameworks = append(c.frameworks, fw)

		for wordID := range ff.Content {
			if _, known := c.wordIndex[wordID]; !known {
				problems.addf("framework %q: content for unknown word %q", fw.ID, wordID)
			}
		}

		for _, w := range c.words {
			byStep := ff.Content[w.ID]
			for stepID := range byStep {
				if fw.StepIndex(stepID) < 0 {
					problems.addf("framework %q word %q: content for unknown step %q", fw.ID, w.ID, stepID)
				}
			}
			for _, s := range fw.Steps {
				ex, ok := byStep[s.ID]
				if !ok && s.Type != models.ExerciseAcknowledge {
					problems.addf("framework %q word %q step %q: missing exercise", fw.ID, w.ID, s.ID)
					continue
				}
				ex.Type = s.Type
				ex.Target = w.English
				if ex.Type == models.ExerciseUnscramble && ex.Answer == "" {
					ex.Answer = w.English
				}
				for _, p := range checkExercise(ex) {
					problems.addf("framework %q word %q step %q: %s", fw.ID, w.ID, s.ID, p)
				}
				c.exercises[exerciseKey{fw.ID, w.ID, s.ID}] = ex
			}
		}
	}

	if err := problems.err(); err != nil {
		return nil, err
	}
	return c, nil
}

func frameworkFromFile(ff FrameworkFile, problems *problemList) (models.Framework, bool) {
	fw := models.Framework{ID: ff.ID, Name: ff.Name, Description: ff.Description}
	if len(ff.Steps) == 0 {
		problems.addf("framework %q: no steps", ff.ID)
		return fw, false
	}

	seen := make(map[string]bool, len(ff.Steps))
	gates := 0
	for _, s := range ff.Steps {
		step := models.JourneyStep{
			ID:          s.ID,
			Label:       s.Label,
			Skill:       models.Skill(s.Skill),
			Type:        models.ExerciseType(s.Type),
			MasteryGate: s.MasteryGate,
		}
		switch {
		case step.ID == "":
			problems.addf("framework %q: step without id", ff.ID)
		case seen[step.ID]:
			problems.addf("framework %q: duplicate step %q", ff.ID, step.ID)
		case !step.Skill.Valid():
			problems.addf("framework %q step %q: unknown skill %q", ff.ID, step.ID, s.Skill)
		case !step.Type.Valid():
			problems.addf("framework %q step %q: unknown exercise type %q", ff.ID, step.ID, s.Type)
		}
		seen[step.ID] = true
		if step.MasteryGate {
			gates++
		}
		fw.Steps = append(fw.Steps, step)
	}
	if gates != 1 {
		problems.addf("framework %q: want exactly one mastery gate, found %d", ff.ID, gates)
	}
	return fw, true
}
