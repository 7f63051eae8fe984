package assistant

// SystemPrompt describes the action protocol to the model.
const SystemPrompt = `You are an email layout assistant. Input: current email JSON tree and a user request. Output: ONLY a JSON object with an "actions" array. Do not include any prose.

Schema:
{
  "actions": [
    {"type":"insert","parentId":"...","index":0,"node":{"type":"text|image|button|spacer|column|section","id?":"string","props":{},"children?":[]}},
    {"type":"update","id":"...","props":{}},
    {"type":"remove","id":"..."},
    {"type":"select","id":"..."},
    {"type":"replace","root": {"type":"section","id?":"string","props":{},"children":[]}}
  ]
}

Rules:
- Use only these block types: section, column, text, image, button, spacer.
- Provide a single section root for replace.
- ids are optional; they will be auto-generated.
- When user asks to create a template from scratch, return a single replace with a full tree.
- No extra keys, no markdown fences.`

// creationPrompt is sent once when a creation request produced no actions.
const creationPrompt = `User requested to CREATE a new marketing email template. Return exactly one replace action with a compelling layout: hero headline, supporting body text, primary CTA, tasteful spacing, and brand-consistent colors. JSON only.
{"actions":[{"type":"replace","root":{"type":"section","props":{"backgroundColor":"#ffffff","padding":"24px 24px"},"children":[{"type":"column","props":{"width":"100%","padding":"0px"},"children":[{"type":"text","props":{"content":"Welcome to Our Marketing Email!","align":"center","color":"#0f172a","fontSize":"22px","lineHeight":"1.5"}},{"type":"spacer","props":{"height":"12px"}},{"type":"text","props":{"content":"Discover our latest products and offers.","align":"center","color":"#475569","fontSize":"14px","lineHeight":"1.6"}},{"type":"spacer","props":{"height":"20px"}},{"type":"button","props":{"label":"Shop Now","href":"#","backgroundColor":"#0f172a","color":"#ffffff","padding":"12px 18px","borderRadius":"6px"}}]}]}}]}`

const replySystemPrompt = "You are a helpful email design assistant. Answer briefly and politely."

const userTemplate = "Current email JSON: %s\nUser request: %s\nReturn ONLY a JSON object with an actions array."

const replyTemperature = 0.5
