package main

// systemPrompt pins the reply shape and the Ollama facts small local models
// tend to get wrong.
const systemPrompt = "You are a precise JSON generator. " +
	"Return ONLY valid JSON with keys: analysis (array), plan (array), output (string). " +
	"No code fences, no prose, no markdown, just JSON. " +
	"Authoritative facts you MUST follow:\n" +
	"- The Python package is 'ollama' (import via: from ollama import Client). Not 'ollamapy'.\n" +
	"- The default Ollama server listens at http://127.0.0.1:11434 .\n" +
	"- Do NOT use 'ollama start --port ...'. Ollama runs as a service/daemon; 'ollama serve' is rarely needed on Windows installer.\n" +
	"- Example models: 'phi3:mini', 'llama3:8b', 'mistral:latest'.\n" +
	"- Install the Python client with: pip install ollama.\n" +
	"- Provide a minimal, correct Windows Quickstart for Ollama + Python. " +
	"If you are unsure, output 'UNKNOWN' for that field instead of guessing."

const (
	defaultGoal        = "Stand up a Windows-based Local LLM Lab using Ollama + Python."
	defaultDeliverable = "Generate a minimal README.md with Quickstart, commands, and folder structure."
)

// userPromptTemplate takes the goal and the deliverable, in that order.
const userPromptTemplate = `Goal:
%s

Deliverable:
%s

Constraints:
- Return STRICT JSON only.
- Keys: analysis (array of objects or strings), plan (array of objects or strings), output (string).
- No markdown, no headings, no backticks, no commentary.
`

const readmeHeader = `# Local LLM Lab (Windows): Ollama + Python

> Minimal quickstart to pull a model, chat via Python, and understand the folder layout.

`

const readmeFooter = "\n\n## Folder Structure\n" +
	"```\n" +
	"local-llm-lab/\n" +
	"├─ pipeline.py\n" +
	"├─ README.md\n" +
	"└─ .venv/                 # optional virtual environment\n" +
	"```\n\n" +
	"## Quick Commands (PowerShell)\n" +
	"```powershell\n" +
	"# (optional) create & activate venv\n" +
	"python -m venv .venv\n" +
	".\\.venv\\Scripts\\activate\n\n" +
	"# install python client\n" +
	"pip install ollama\n\n" +
	"# pull a small model for testing (or any you prefer)\n" +
	"ollama pull phi3:mini\n\n" +
	"# extract a record and write this README\n" +
	"recordx run\n" +
	"```\n\n" +
	"## Notes\n\n" +
	"* Ollama default API: [http://127.0.0.1:11434](http://127.0.0.1:11434)\n" +
	"* Python client import: from ollama import Client\n" +
	"* Change default model via: $env:RECORDX_MODEL = \"phi3:mini\"\n"
