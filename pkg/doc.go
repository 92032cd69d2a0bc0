// Package pkg provides the core libraries for Trazo, the intuitive diary.
//
// # Overview
//
// Trazo turns a text into the trace of a thought, a generative line drawing
// whose shape follows the punctuation and letters of the text. It also turns a
// sequence of emojis into an emotional river where each emoji becomes a
// colored stop on a wave. The diary ties both together: it collects the emojis
// a person sends, asks an agent to interpret them, and draws the interpretation
// on request.
//
// The pkg directory is organized into three areas:
//
//  1. Drawing: [descriptor], [phase], [trace], [river], [lexicon], [render]
//  2. Orchestration: [pipeline], [diary], [agent]
//  3. Infrastructure: [cache], [session], [gallery], [config], [server]
//
// # Architecture
//
// The data flow for a text:
//
//	text
//	  ↓
//	[descriptor] (count punctuation, vowels, consonants; derive a seed)
//	  ↓
//	[phase] (split the walk into expansion, contraction and stillness)
//	  ↓
//	[trace] (seeded random walk, then parallel ribbons)
//	  ↓
//	[render] (PNG with stroke widths driven by intensity and calm)
//
// And for an emoji sequence:
//
//	"😊 🌊 🔥" → [river] (stops on a sine wave) → [render] (PNG colored per [lexicon])
//
// # Quick Start
//
//	bag := descriptor.Interpret("¡Hoy me siento tranquilo!")
//	tr, rb := trace.Generate(bag, phase.Build(bag), trace.DefaultBounds)
//	png, err := render.Ribbons(tr, rb, bag, render.Options{})
//
// Or with caching and saving through a runner:
//
//	r := pipeline.NewRunner(nil, gallery.NewDirStore("imagenes"), logger)
//	res, err := r.SaveEmojiRiver(ctx, "😊 🌊 🔥")
//	fmt.Println(res.Image.Location)
//
// # Main Packages
//
// ## Drawing
//
// [descriptor] - Text interpretation into a bag of counts and derived scalars.
//
// [phase] - Normalized intensity and calm, and the phase plan of a walk.
//
// [trace] - Deterministic random walk inside bounds and its ribbon offsets.
//
// [river] - Emoji sequence parsing and the wave layout of stops and segments.
//
// [lexicon] - The emoji color table and emotional registers.
//
// [render] - Rasterization of ribbons and rivers with a pinned clock.
//
// [fonts] - Font resolution with bundled fallbacks.
//
// ## Orchestration
//
// [pipeline] - Parse → layout → render used by the CLI, the server and the
// diary. Ensures consistent behavior across all entry points.
//
// [diary] - Message routing: emoji accumulation, image commands and
// per-session serialization.
//
// [agent] - Interpreters for the diary: an offline rule-based agent and an
// OpenAI agent with structured output.
//
// ## Infrastructure
//
// [cache] - Render and interpretation cache with null, memory, file and Redis
// backends.
//
// [session] - Diary sessions with memory, file and Redis stores.
//
// [gallery] - Saved images in a directory or in MongoDB.
//
// [config] - TOML configuration with environment overrides.
//
// [server] - The HTTP API.
//
// [errors] - Error codes shared by every layer.
//
// [observability] - Hook interfaces for logging and metrics.
//
// # Testing
//
//	go test ./pkg/...                        # All tests
//	TRAZO_TEST_REDIS=localhost:6379 go test ./pkg/session/
//	TRAZO_TEST_MONGO=mongodb://localhost go test ./pkg/gallery/
package pkg
