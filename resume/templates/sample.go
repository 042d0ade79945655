package templates

// SampleGeneratedResume is the canned generator output used by demos, the CLI
// and parser regression tests.
const SampleGeneratedResume = `JOHN DOE
john.doe@email.com | +1-555-123-4567 | LinkedIn: linkedin.com/in/johndoe | GitHub: github.com/johndoe

PROFESSIONAL SUMMARY
Results-driven software engineer with 6 years building scalable web applications and cloud services.
Passionate about clean architecture, mentoring and shipping reliable products.

TECHNICAL SKILLS
• JavaScript
• TypeScript
• React
• Node.js
• Python
• PostgreSQL
• AWS
• Docker

PROFESSIONAL EXPERIENCE
Senior Software Engineer | Tech Solutions Inc. | 2021 - Present
• Led development of a microservices platform serving over one million users
• Reduced API response times by 40% through caching and query tuning
• Mentored a team of 4 junior engineers
Software Engineer | Digital Innovations LLC | 2018 - 2021
• Built customer-facing dashboards with React and TypeScript
• Implemented CI/CD pipelines cutting release time by 60%

EDUCATION
State University | Bachelor of Science in Computer Science | 2014 - 2018

PROJECTS
Task Management App
• Full-stack productivity tool with real-time collaboration
Technologies: React, Node.js, MongoDB, Socket.io

CERTIFICATIONS
• AWS Certified Solutions Architect
• Certified Kubernetes Application Developer

INTERESTS
Photography, Hiking, Open Source Contributions
`
