package discovery

const hardwarePrompt = `
You are a research agent specialized in dexterous robotic hands.

Please provide a comprehensive list of current dexterous hand hardware available in the market or in development by startups and companies.

For each hand, provide the following specifications in JSON format:
- name: Full product name
- manufacturer: Company/organization name
- fingers: Number of fingers (including thumb)
- dofs: Total degrees of freedom
- actuatedDofs: Number of actuated degrees of freedom
- abduction: Boolean - supports abduction/adduction movement
- flexion: Boolean - supports flexion movement
- price: Estimated price in USD (use 0 if unknown)

Focus on recent products from 2020 onwards, including products from:
- Shadow Robot Company
- Wonik Robotics
- Barrett Technology
- Schunk
- DLR
- Robotiq
- And any new startups or companies

Return only a valid JSON array of objects, no additional text.
`

const paperPrompt = `
You are a research agent specialized in dexterous robotic hands and manipulation.

Please provide a comprehensive list of recent research papers (2023-2024) related to dexterous hand manipulation.

Focus on papers from these categories:
- Reinforcement Learning
- Imitation Learning
- VLAs (Vision-Language-Action models)
- Control
- Optimization

For each paper, provide the following information in JSON format:
- title: Full paper title
- authors: Array of author names
- abstract: Brief abstract (2-3 sentences)
- category: One of the categories mentioned above
- publishedDate: Publication date in YYYY-MM-DD format
- url: Paper URL (ArXiv, IEEE, etc.)

Look for papers from top venues like:
- ArXiv preprints
- ICRA, IROS, RSS robotics conferences
- NeurIPS, ICML machine learning conferences
- IJRR, TRO robotics journals

Return only a valid JSON array of objects, no additional text.
`
