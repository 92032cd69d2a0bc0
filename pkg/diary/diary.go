// Package diary implements the intuitive diary conversation.
//
// Each message goes through [Diary.Handle]. Emoji in the message are added to
// the session. An image command renders the interpretation stored by the
// previous emoji-bearing turn as a text trace, saves it, and clears the
// session. Any other message goes to the agent; when it carried emoji, the
// agent's reply becomes the stored interpretation.
package diary

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trazo/pkg/agent"
	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/observability"
	"github.com/matzehuels/trazo/pkg/pipeline"
	"github.com/matzehuels/trazo/pkg/session"
)

// Replies with fixed wording.
const (
	NoInterpretation = "⚠️ Aún no tengo una interpretación de tu río emocional. Envíame algunos emojis de lo que sientes o piensas primero."
	NoEmojis         = "⚠️ Aún no hay emojis en tu río emocional. Envíame algunos emojis de lo que sientes o piensas primero."
)

// Reply is the outcome of one message.
type Reply struct {
	Text      string         `json:"respuesta"`
	SessionID string         `json:"session_id"`
	Emojis    []string       `json:"emojis,omitempty"`
	Image     *gallery.Image `json:"imagen,omitempty"`
	Command   string         `json:"comando,omitempty"`
}

// Diary routes messages between the session store, the agent and the
// pipeline. It is safe for concurrent use; messages for the same session are
// handled one at a time.
type Diary struct {
	Sessions session.Store
	Agent    agent.Agent
	Runner   *pipeline.Runner
	Logger   *log.Logger

	// TTL is applied to sessions on every message.
	TTL time.Duration

	locks [64]sync.Mutex
}

// New creates a diary. A nil agent uses agent.Offline and a nil logger uses
// log.Default().
func New(store session.Store, a agent.Agent, runner *pipeline.Runner, logger *log.Logger) *Diary {
	if a == nil {
		a = agent.Offline{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Diary{
		Sessions: store,
		Agent:    a,
		Runner:   runner,
		Logger:   logger,
		TTL:      session.DefaultTTL,
	}
}

func (d *Diary) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &d.locks[h.Sum32()%uint32(len(d.locks))]
	m.Lock()
	return m.Unlock
}

// Handle processes one message for sessionID. An empty sessionID uses
// session.DefaultID.
func (d *Diary) Handle(ctx context.Context, sessionID, msg string) (Reply, error) {
	if sessionID == "" {
		sessionID = session.DefaultID
	}
	if err := terrors.ValidateSessionID(sessionID); err != nil {
		return Reply{}, err
	}
	if err := terrors.ValidateText(msg); err != nil {
		return Reply{}, err
	}

	defer d.lock(sessionID)()

	sess, err := d.Sessions.Get(ctx, sessionID)
	if err != nil {
		return Reply{}, terrors.Wrap(terrors.ErrCodeStorage, err, "load session")
	}
	if sess == nil {
		sess = session.New(sessionID, d.TTL)
	}

	emojis := ExtractEmojis(msg)
	sess.AddEmojis(emojis...)
	observability.Diary().OnMessage(ctx, sessionID, len(emojis))

	var reply Reply
	if cmd, ok := DetectImageCommand(msg); ok {
		reply = d.command(ctx, sess, cmd)
	} else {
		text, err := d.Agent.Reply(ctx, agent.Request{
			SessionID: sessionID,
			Message:   msg,
			Emojis:    sess.Emojis,
			New:       emojis,
		})
		if err != nil {
			if terrors.GetCode(err) == "" {
				err = terrors.Wrap(terrors.ErrCodeAgent, err, "agent reply")
			}
			return Reply{}, err
		}
		if len(emojis) > 0 {
			sess.SetInterpretation(text)
		}
		reply = Reply{Text: text}
	}

	sess.Touch(d.TTL)
	if err := d.Sessions.Set(ctx, sess); err != nil {
		return Reply{}, terrors.Wrap(terrors.ErrCodeStorage, err, "save session")
	}

	reply.SessionID = sessionID
	reply.Emojis = append([]string(nil), sess.Emojis...)
	d.Logger.Debug("diary message",
		"session", sessionID,
		"emojis", len(emojis),
		"total", len(sess.Emojis),
		"command", reply.Command)
	return reply, nil
}

// command runs an image command against sess, mutating it on success.
func (d *Diary) command(ctx context.Context, sess *session.Session, cmd Command) Reply {
	var (
		text string
		img  *gallery.Image
		err  error
	)
	switch cmd.Kind {
	case CommandRiver:
		if len(sess.Emojis) == 0 {
			return Reply{Text: NoEmojis, Command: cmd.Name}
		}
		text, img, err = CreateVisualization(ctx, d.Runner, strings.Join(sess.Emojis, " "))
	default:
		if !sess.HasInterpretation() {
			return Reply{Text: NoInterpretation, Command: cmd.Name}
		}
		text, img, err = CreateTraceImage(ctx, d.Runner, sess.Interpretation)
	}
	observability.Diary().OnCommand(ctx, sess.ID, cmd.Name, err)

	if err == nil {
		sess.Reset()
	} else {
		d.Logger.Warn("image command failed", "session", sess.ID, "command", cmd.Name, "error", err)
	}
	return Reply{Text: text, Image: img, Command: cmd.Name}
}

// CreateVisualization renders emojis as a river, saves it, and returns a
// confirmation for the person. Failures are reported in the message as well
// as in err.
func CreateVisualization(ctx context.Context, r *pipeline.Runner, emojis string) (string, *gallery.Image, error) {
	res, err := r.SaveEmojiRiver(ctx, emojis)
	if err != nil {
		return fmt.Sprintf("⚠️ Hubo un problema al crear la visualización: %s", terrors.UserMessage(err)), nil, err
	}
	return fmt.Sprintf("✨ He creado una visualización de tu río emocional con los emojis: %s", emojis), res.Image, nil
}

// CreateTraceImage renders interpretation as a text trace, saves it, and
// returns a confirmation for the person.
func CreateTraceImage(ctx context.Context, r *pipeline.Runner, interpretation string) (string, *gallery.Image, error) {
	res, err := r.SaveTextTrace(ctx, interpretation)
	if err != nil {
		return fmt.Sprintf("⚠️ Hubo un problema al crear la imagen de tu río emocional: %s", terrors.UserMessage(err)), nil, err
	}
	return fmt.Sprintf("🎨 He creado la imagen del trazo de tu pensamiento: %s", res.Image.Location), res.Image, nil
}
