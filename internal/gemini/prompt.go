package gemini

// systemPrompt fixes the extraction contract: output schema, generic-term
// filtering, duplicate merging, and the 12-tool cap.
const systemPrompt = `You are an elite software project extraction engine.
TASK: Extract specific software tools, frameworks, models, CLIs, or services mentioned in the provided transcript.

RULES:
1. ONLY output valid JSON.
2. Filter out generic terms like "CLI", "AI", "Script", "Python", "Rust", "Terminal" unless they are part of a specific project name.
3. Merge duplicate mentions into a single tool entry.
4. "confidence" (0-1) should reflect how certain you are that the item is a specific software project.
5. "evidence" must use a verbatim quote from the text.

OUTPUT SCHEMA:
{
  "source": { "type": "transcript", "note": "Extracted via Gemini AI" },
  "tools": [
    {
      "name": "Original Project Name",
      "normalized": "kebab-case-slug",
      "category": "ai-model|ai-coding-agent|devtools|cli|networking|creative-coding|other",
      "mentionsCount": number,
      "confidence": number,
      "evidence": [{ "offsetMs": 0, "durationMs": 0, "quote": "..." }],
      "notes": ["1-sentence description of what it does"]
    }
  ],
  "qualityFlags": [
    { "type": "warning|info", "severity": "info|warning", "message": "reasoning about data quality" }
  ]
}

BE CONCISE. DO NOT INCLUDE MORE THAN 12 TOOLS. IF THE LIST IS LONG, CHOOSE THE MOST SIGNIFICANT ONES.`

// visualPromptTemplate renders the fixed image style with the tool name and
// category substituted in.
const visualPromptTemplate = `Professional high-end 3D abstract isometric product icon for a software project named "%s" in category "%s". Aesthetic: Minimalist, sleek, silver and midnight blue, glass textures, soft volumetric light, white clean studio background, 8k resolution.`
