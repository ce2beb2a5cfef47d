package sbscript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/corvid-games/osb-go/internal/easing"
)

// ParseWarning is one recoverable parse issue (§7.2-§7.4): malformed
// line, nesting violation, or unresolved enum reference. The caller
// decides whether to log it; the parser never does.
type ParseWarning struct {
	Line    int
	Message string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

type section int

const (
	sectionNone section = iota
	sectionEvents
	sectionVariables
	sectionGeneral
	sectionMetadata
)

var layerNames = map[string]Layer{
	"Background": Background, "Fail": Fail, "Pass": Pass,
	"Foreground": Foreground, "Overlay": Overlay,
}

var originNames = map[string]Origin{
	"TopLeft": TopLeft, "TopCentre": TopCentre, "TopRight": TopRight,
	"CentreLeft": CentreLeft, "Centre": Centre, "CentreRight": CentreRight,
	"BottomLeft": BottomLeft, "BottomCentre": BottomCentre, "BottomRight": BottomRight,
}

var loopTypeNames = map[string]LoopType{
	"LoopForever": LoopForever, "LoopOnce": LoopOnce, "Custom": LoopCustom,
}

var parameterTypeNames = map[string]ParameterType{
	"H": FlipH, "V": FlipV, "A": Additive,
}

var eventKindNames = map[string]EventKind{
	"F": KindFade, "S": KindScale, "V": KindVectorScale, "R": KindRotate,
	"M": KindMove, "MX": KindMoveX, "MY": KindMoveY, "C": KindColor, "P": KindParameter,
}

// keyword identifies a top-level [Events] line that isn't a nested
// property command.
type keyword int

const (
	keywordNone keyword = iota
	keywordSprite
	keywordAnimation
	keywordSample
	keywordL
	keywordT
)

var keywordNames = map[string]keyword{
	"Sprite": keywordSprite, "Animation": keywordAnimation,
	"Sample": keywordSample, "L": keywordL, "T": keywordT,
}

type parser struct {
	cfg       Config
	warnings  []ParseWarning
	script    *ScriptFile
	variables map[string]string
	section   section

	inLoop    bool
	inTrigger bool

	currentLoop    *Loop
	currentTrigger *Trigger

	lineNumber int
}

// ParseFile opens and parses a storyboard script from disk. Opening the
// file is the only fatal error class (§7.1); everything else is
// collected into the returned warnings.
func ParseFile(path string, cfg Config) (*ScriptFile, []ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, cfg)
}

// Parse reads a storyboard script per §6 and §7. It never returns a
// non-nil error for malformed content — only an unreadable stream (the
// scanner's own I/O error) is fatal; everything else becomes a warning.
func Parse(r io.Reader, cfg Config) (*ScriptFile, []ParseWarning, error) {
	p := &parser{
		cfg:       cfg,
		script:    NewScriptFile(),
		variables: make(map[string]string),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineNumber++
		p.handleLine(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, p.warnings, fmt.Errorf("read storyboard: %w", err)
	}
	return p.script, p.warnings, nil
}

func (p *parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, ParseWarning{Line: p.lineNumber, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) handleLine(line string) {
	if len(line) == 0 || strings.HasPrefix(line, "//") {
		return
	}
	switch {
	case strings.Contains(line, "[Events]"):
		p.section = sectionEvents
		return
	case strings.Contains(line, "[Variables]"):
		p.section = sectionVariables
		return
	case strings.Contains(line, "[General]"):
		p.section = sectionGeneral
		return
	case strings.Contains(line, "[Metadata]"):
		p.section = sectionMetadata
		return
	case strings.Contains(line, "["):
		// Unknown heading: reset to None, per §6.
		p.section = sectionNone
		return
	}

	switch p.section {
	case sectionEvents:
		p.handleEventLine(line)
	case sectionVariables:
		p.handleVariableLine(line)
	case sectionGeneral:
		p.handleInfoLine(line, p.script.General)
	case sectionMetadata:
		p.handleInfoLine(line, p.script.Metadata)
	}
}

func (p *parser) handleVariableLine(line string) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 || idx == len(line)-1 {
		return // invalid variable, ignored exactly as the original does
	}
	key, value := line[:idx], line[idx+1:]
	p.variables[key] = value
}

func (p *parser) handleInfoLine(line string, into map[string]string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 || idx == len(line)-1 {
		return
	}
	key := line[:idx]
	value := strings.TrimSpace(line[idx+1:])
	into[key] = value
}

// applyVariables substitutes every known KEY with its VALUE, sorted by
// key for deterministic output — the original iterates an unordered_map,
// which cannot collide predictably either, but this way a rerun of the
// same script always substitutes the same way.
func (p *parser) applyVariables(line string) string {
	if len(p.variables) == 0 {
		return line
	}
	keys := make([]string, 0, len(p.variables))
	for k := range p.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line = strings.ReplaceAll(line, k, p.variables[k])
	}
	return line
}

func countDepth(line string) int {
	depth := 0
	for depth < len(line) && (line[depth] == ' ' || line[depth] == '_') {
		depth++
	}
	return depth
}

func removePathQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func (p *parser) currentSprite() *SpriteDef {
	if len(p.script.Sprites) == 0 {
		return nil
	}
	return p.script.Sprites[len(p.script.Sprites)-1]
}

func (p *parser) handleEventLine(raw string) {
	depth := countDepth(raw)
	line := p.applyVariables(raw[depth:])
	if len(line) == 0 {
		return
	}
	fields := strings.Split(line, ",")

	if p.inTrigger && depth < 2 {
		p.inTrigger = false
		p.currentTrigger = nil
	}
	if p.inLoop && depth < 2 {
		p.inLoop = false
		p.currentLoop = nil
	}

	if kw, ok := keywordNames[fields[0]]; ok {
		p.handleKeyword(kw, fields)
		return
	}
	p.handleNestedEvent(fields)
}

func (p *parser) handleKeyword(kw keyword, fields []string) {
	switch kw {
	case keywordSprite:
		if len(fields) < 6 {
			p.warn("Sprite: expected 6 fields, got %d", len(fields))
			return
		}
		layer := p.resolveLayer(fields[1])
		origin := p.resolveOrigin(fields[2])
		x, ok1 := p.parseFloat(fields[4])
		y, ok2 := p.parseFloat(fields[5])
		if !ok1 || !ok2 {
			p.warn("Sprite: malformed coordinates")
			return
		}
		p.script.Sprites = append(p.script.Sprites, &SpriteDef{
			Layer: layer, Origin: origin, Filepath: removePathQuotes(fields[3]),
			InitialX: x, InitialY: y,
		})

	case keywordAnimation:
		if len(fields) < 8 {
			p.warn("Animation: expected at least 8 fields, got %d", len(fields))
			return
		}
		layer := p.resolveLayer(fields[1])
		origin := p.resolveOrigin(fields[2])
		x, ok1 := p.parseFloat(fields[4])
		y, ok2 := p.parseFloat(fields[5])
		frameCount, ok3 := p.parseInt(fields[6])
		frameDelay, ok4 := p.parseFloat(fields[7])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			p.warn("Animation: malformed numeric field")
			return
		}
		if frameCount < 1 {
			frameCount = 1
		}
		if frameDelay < 0 {
			frameDelay = 0
		}
		loopType := p.cfg.DefaultLoopType
		if len(fields) > 8 {
			if lt, ok := loopTypeNames[fields[8]]; ok {
				loopType = lt
			} else {
				p.warn("Animation: unresolved loop type %q, defaulting", fields[8])
			}
		}
		p.script.Sprites = append(p.script.Sprites, &SpriteDef{
			Layer: layer, Origin: origin, Filepath: removePathQuotes(fields[3]),
			InitialX: x, InitialY: y, IsAnimation: true,
			FrameCount: frameCount, FrameDelay: frameDelay, LoopType: loopType,
		})

	case keywordSample:
		if len(fields) < 4 {
			p.warn("Sample: expected at least 4 fields, got %d", len(fields))
			return
		}
		t, ok := p.parseFloat(fields[1])
		if !ok {
			p.warn("Sample: malformed time")
			return
		}
		layerIdx, ok := p.parseInt(fields[2])
		layer := p.cfg.DefaultLayer
		if ok && layerIdx >= int(Background) && layerIdx <= int(Overlay) {
			layer = Layer(layerIdx)
		} else {
			p.warn("Sample: unresolved layer %q, defaulting", fields[2])
		}
		volume := p.cfg.DefaultSampleVolume
		if len(fields) > 4 {
			if v, ok := p.parseInt(fields[4]); ok {
				volume = v
			}
		}
		p.script.Samples = append(p.script.Samples, Sample{
			Time: t, Layer: layer, Filepath: removePathQuotes(fields[3]), Volume: volume,
		})

	case keywordL:
		sprite := p.currentSprite()
		if sprite == nil {
			p.warn("L: no sprite to attach loop to")
			return
		}
		if p.inLoop || p.inTrigger {
			p.warn("L: nesting violation, loop opener skipped")
			return
		}
		if len(fields) < 3 {
			p.warn("L: expected 3 fields, got %d", len(fields))
			return
		}
		start, ok1 := p.parseFloat(fields[1])
		count, ok2 := p.parseInt(fields[2])
		if !ok1 || !ok2 {
			p.warn("L: malformed numeric field")
			return
		}
		if count < 1 {
			count = 1
		}
		loop := &Loop{StartTime: start, LoopCount: count}
		sprite.Loops = append(sprite.Loops, loop)
		p.inLoop = true
		p.currentLoop = loop

	case keywordT:
		sprite := p.currentSprite()
		if sprite == nil {
			p.warn("T: no sprite to attach trigger to")
			return
		}
		if p.inLoop || p.inTrigger {
			p.warn("T: nesting violation, trigger opener skipped")
			return
		}
		if len(fields) < 4 {
			p.warn("T: expected at least 4 fields, got %d", len(fields))
			return
		}
		start, ok1 := p.parseFloat(fields[2])
		end, ok2 := p.parseFloat(fields[3])
		if !ok1 || !ok2 {
			p.warn("T: malformed numeric field")
			return
		}
		group := 0
		if len(fields) > 4 {
			group, _ = p.parseInt(fields[4])
		}
		trigger := &Trigger{Name: fields[1], StartTime: start, EndTime: end, Group: group}
		sprite.Triggers = append(sprite.Triggers, trigger)
		p.inTrigger = true
		p.currentTrigger = trigger
	}
}

func (p *parser) resolveLayer(s string) Layer {
	if l, ok := layerNames[s]; ok {
		return l
	}
	p.warn("unresolved layer %q, defaulting to Foreground", s)
	return p.cfg.DefaultLayer
}

func (p *parser) resolveOrigin(s string) Origin {
	if o, ok := originNames[s]; ok {
		return o
	}
	p.warn("unresolved origin %q, defaulting to Centre", s)
	return p.cfg.DefaultOrigin
}

func (p *parser) parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func (p *parser) parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// handleNestedEvent parses KIND,easing,start,end,v0[,v1...] and attaches
// it to the current sprite's active container: trigger, then loop, then
// the top-level event list (§6's nesting attachment rule).
func (p *parser) handleNestedEvent(fields []string) {
	sprite := p.currentSprite()
	if sprite == nil {
		p.warn("event with no sprite to attach to")
		return
	}
	kind, ok := eventKindNames[fields[0]]
	if !ok {
		p.warn("unknown event keyword %q", fields[0])
		return
	}
	if len(fields) < 5 {
		p.warn("%s: expected at least 5 fields, got %d", fields[0], len(fields))
		return
	}
	if fields[3] == "" {
		fields[3] = fields[2]
	}
	easingIdx, ok := p.parseInt(fields[1])
	if !ok {
		p.warn("%s: malformed easing index", fields[0])
		return
	}
	start, ok1 := p.parseFloat(fields[2])
	end, ok2 := p.parseFloat(fields[3])
	if !ok1 || !ok2 {
		p.warn("%s: malformed time field", fields[0])
		return
	}
	ev := Event{Kind: kind, Easing: easing.FromIndex(easingIdx), StartTime: start, EndTime: end}

	switch kind {
	case KindFade, KindScale, KindRotate, KindMoveX, KindMoveY:
		v0, ok := p.parseFloat(fields[4])
		if !ok {
			p.warn("%s: malformed value", fields[0])
			return
		}
		v1 := v0
		if len(fields) > 5 {
			if v, ok := p.parseFloat(fields[5]); ok {
				v1 = v
			}
		}
		ev.StartValue, ev.EndValue = v0, v1

	case KindVectorScale, KindMove:
		if len(fields) < 6 {
			p.warn("%s: expected at least 6 fields, got %d", fields[0], len(fields))
			return
		}
		sx, ok1 := p.parseFloat(fields[4])
		sy, ok2 := p.parseFloat(fields[5])
		if !ok1 || !ok2 {
			p.warn("%s: malformed pair", fields[0])
			return
		}
		ex, ey := sx, sy
		if len(fields) > 6 {
			if v, ok := p.parseFloat(fields[6]); ok {
				ex = v
			}
		}
		if len(fields) > 7 {
			if v, ok := p.parseFloat(fields[7]); ok {
				ey = v
			}
		}
		ev.StartValue, ev.StartValue2 = sx, sy
		ev.EndValue, ev.EndValue2 = ex, ey

	case KindColor:
		if len(fields) < 7 {
			p.warn("%s: expected at least 7 fields, got %d", fields[0], len(fields))
			return
		}
		r0, ok1 := p.parseInt(fields[4])
		g0, ok2 := p.parseInt(fields[5])
		b0, ok3 := p.parseInt(fields[6])
		if !ok1 || !ok2 || !ok3 {
			p.warn("%s: malformed color", fields[0])
			return
		}
		r1, g1, b1 := r0, g0, b0
		if len(fields) > 7 {
			if v, ok := p.parseInt(fields[7]); ok {
				r1 = v
			}
		}
		if len(fields) > 8 {
			if v, ok := p.parseInt(fields[8]); ok {
				g1 = v
			}
		}
		if len(fields) > 9 {
			if v, ok := p.parseInt(fields[9]); ok {
				b1 = v
			}
		}
		ev.StartColor = [3]float64{float64(r0) / 255.0, float64(g0) / 255.0, float64(b0) / 255.0}
		ev.EndColor = [3]float64{float64(r1) / 255.0, float64(g1) / 255.0, float64(b1) / 255.0}

	case KindParameter:
		pt, ok := parameterTypeNames[fields[4]]
		if !ok {
			p.warn("P: unresolved parameter type %q, defaulting to Additive", fields[4])
			pt = p.cfg.DefaultParameterType
		}
		ev.Param = pt
	}

	switch {
	case p.inTrigger && p.currentTrigger != nil:
		p.currentTrigger.Events = append(p.currentTrigger.Events, ev)
	case p.inLoop && p.currentLoop != nil:
		p.currentLoop.Events = append(p.currentLoop.Events, ev)
	default:
		sprite.Events = append(sprite.Events, ev)
	}
}
