// Package assistant connects layout trees to a text-generation service.
//
// The service is reached through the narrow Model interface, with OpenAI and
// Google implementations. Assistant implements Collaborator on top of any Model:
// it sends the current tree and the user's instruction, sanitizes the reply with
// the action package and applies the follow-up rules for empty replies.
//
// # Usage
//
//	model, err := assistant.NewOpenAI(os.Getenv("OPENAI_API_KEY"))
//	if err != nil {
//		return err
//	}
//	a := assistant.New(model, assistant.WithLogger(log))
//
//	batch, err := a.Send(ctx, root, "make the headline blue")
//	if errors.Is(err, assistant.ErrModelUnavailable) {
//		// show "service unreachable" to the user
//	}
//	next := action.Apply(root, batch.Actions)
//
// Or from the environment:
//
//	var cfg assistant.Config
//	config.MustLoad(&cfg)
//	a, err := assistant.FromConfig(ctx, cfg)
//
// # Follow-up rules
//
// An instruction asking to create, generate, make or build something that
// yields no actions triggers one more request for a complete template; only
// replace actions of that answer are kept. An instruction that still yields
// nothing and reads like a greeting or a help request gets a short free-text
// answer in Batch.Reply. Requests are strictly sequential.
package assistant
